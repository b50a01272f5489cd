// Package server implements the gRPC DepotView service
package server

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nainya/depotview/internal/logger"
	"github.com/nainya/depotview/internal/metrics"
	"github.com/nainya/depotview/pkg/history"
	"github.com/nainya/depotview/pkg/query"
	"github.com/nainya/depotview/pkg/revision"
	"github.com/nainya/depotview/pkg/view"
)

// Version is reported by Health
const Version = "1.0.0"

// Server implements the DepotViewServer interface. It holds no request
// state; every call works on the records it carries.
type Server struct {
	log     *logger.Logger
	metrics *metrics.Metrics

	startTime time.Time
	mu        sync.Mutex
	opCounts  map[string]int64
}

var _ DepotViewServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(log *logger.Logger, m *metrics.Metrics) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		log:       log,
		metrics:   m,
		startTime: time.Now(),
		opCounts:  make(map[string]int64),
	}
}

func (s *Server) count(op string) {
	s.mu.Lock()
	s.opCounts[op]++
	s.mu.Unlock()
}

// ========== Revision Operations ==========

func (s *Server) ParseRevision(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	s.count("ParseRevision")

	r, ok := revision.Parse(req.GetValue())
	s.log.ParseLogger().LogParse(req.GetValue(), r.Kind().String(), ok)
	if s.metrics != nil {
		s.metrics.RecordParse(r.Kind().String(), ok)
	}

	out, err := structpb.NewStruct(revisionStruct(r))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode revision: %v", err)
	}
	return out, nil
}

func (s *Server) Resolve(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	s.count("Resolve")
	fields := req.GetFields()

	text := fields["revision"].GetStringValue()
	spec, ok := revision.Parse(text)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "invalid revision specifier %q", text)
	}

	now := time.Now()
	if v := fields["now"].GetStringValue(); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "now: %v", err)
		}
		now = t
	}

	rs, err := resultSetFromStruct(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "records: %v", err)
	}
	if rs.HasError() {
		return nil, status.Errorf(codes.FailedPrecondition, "command failed: %s", rs.ErrorText())
	}

	h, err := history.FromResultSet(rs, int(fields["have"].GetNumberValue()))
	if err == nil {
		var entries []*history.Entry
		if entries, err = h.ResolveAt(spec, now); err == nil {
			return s.resolved(spec, h, entries)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordResolve(spec.Kind().String(), "error", 0)
	}
	switch {
	case errors.Is(err, history.ErrNoRevisions):
		return nil, status.Error(codes.NotFound, err.Error())
	case errors.Is(err, history.ErrUnresolvable):
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	return nil, status.Errorf(codes.Internal, "resolve: %v", err)
}

func (s *Server) resolved(spec revision.Revision, h *history.History, entries []*history.Entry) (*structpb.Struct, error) {
	if s.metrics != nil {
		s.metrics.RecordResolve(spec.Kind().String(), "ok", len(entries))
	}
	list := make([]any, len(entries))
	for i, e := range entries {
		list[i] = entryStruct(e)
	}
	out, err := structpb.NewStruct(map[string]any{
		"depot_file": h.DepotFile,
		"revision":   spec.String(),
		"entries":    list,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode entries: %v", err)
	}
	return out, nil
}

// ========== View Operations ==========

func (s *Server) Project(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	s.count("Project")
	start := time.Now()
	fields := req.GetFields()

	shape := fields["shape"].GetStringValue()
	if shape == "" {
		shape = "raw"
	}
	if _, ok := view.Lookup(shape); !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown shape %q", shape)
	}

	rs, err := resultSetFromStruct(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "records: %v", err)
	}

	q, filtered, err := queryFromStruct(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "query: %v", err)
	}
	total, hasMore := rs.Len(), false
	if filtered {
		res, err := query.Execute(rs, q)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "query: %v", err)
		}
		total, hasMore = res.Total, res.HasMore
		page := res.ToResultSet()
		for _, t := range rs.Texts() {
			page.AddText(t.Channel, t.Value, t.Level)
		}
		rs = page
	}

	v, err := view.Project(shape, rs)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	nodes := make([]any, 0, v.Count())
	for n := range v.Nodes() {
		nodes = append(nodes, nodeMap(n))
	}

	duration := time.Since(start)
	s.log.LogProjection(shape, duration, v.Count(), nil)
	if s.metrics != nil {
		s.metrics.RecordProjection(shape, v.Count(), v.HasError(), duration)
	}

	out, err := structpb.NewStruct(map[string]any{
		"shape":      shape,
		"count":      v.Count(),
		"total":      total,
		"has_more":   hasMore,
		"has_error":  v.HasError(),
		"error_text": v.ErrorText(),
		"nodes":      nodes,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode projection: %v", err)
	}
	return out, nil
}

// ========== Health & Status ==========

func (s *Server) Health(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	s.mu.Lock()
	counts := maps.Clone(s.opCounts)
	s.mu.Unlock()

	ops := make(map[string]any, len(counts))
	for k, v := range counts {
		ops[k] = v
	}
	shapes := make([]any, 0)
	for _, name := range view.Shapes() {
		shapes = append(shapes, name)
	}

	out, err := structpb.NewStruct(map[string]any{
		"healthy":          true,
		"version":          Version,
		"uptime_seconds":   int64(time.Since(s.startTime).Seconds()),
		"shapes":           shapes,
		"operation_counts": ops,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode health: %v", err)
	}
	return out, nil
}
