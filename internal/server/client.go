package server

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nainya/depotview/pkg/query"
	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/ztag"
)

// Client calls the DepotView service over a connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseRevision parses text on the server
func (c *Client) ParseRevision(ctx context.Context, text string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodParseRevision, wrapperspb.String(text), opts...)
}

// Project sends rs as JSON lines, preserving key order, optionally with a query
func (c *Client) Project(ctx context.Context, shape string, rs *result.ResultSet, q *query.Query, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := requestFields(rs)
	if err != nil {
		return nil, err
	}
	req["shape"] = shape
	if q != nil {
		where := make([]any, len(q.Filters))
		for i, f := range q.Filters {
			where[i] = f.String()
		}
		req["where"] = where
		if q.OrderBy != "" {
			req["order_by"] = q.OrderBy
			req["descending"] = q.Descending
		}
		if q.Limit > 0 {
			req["limit"] = q.Limit
		}
		if q.Offset > 0 {
			req["offset"] = q.Offset
		}
	}
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.invoke(ctx, MethodProject, in, opts...)
}

// Resolve resolves spec against the revision records in rs
func (c *Client) Resolve(ctx context.Context, spec string, rs *result.ResultSet, have int, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := requestFields(rs)
	if err != nil {
		return nil, err
	}
	req["revision"] = spec
	if have > 0 {
		req["have"] = have
	}
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.invoke(ctx, MethodResolve, in, opts...)
}

// Health reports service status
func (c *Client) Health(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodHealth, &emptypb.Empty{}, opts...)
}

// requestFields carries rs in JSON line form. Messages travel as
// severity lines, so stderr needs no separate field.
func requestFields(rs *result.ResultSet) (map[string]any, error) {
	var buf bytes.Buffer
	if err := ztag.EncodeJSON(&buf, rs); err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return map[string]any{fieldJSON: buf.String()}, nil
}
