// Service descriptor for the depotview gRPC API, built on well-known types
package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "depotview.v1.DepotView"

// Full method names
const (
	MethodParseRevision = "/" + ServiceName + "/ParseRevision"
	MethodProject       = "/" + ServiceName + "/Project"
	MethodResolve       = "/" + ServiceName + "/Resolve"
	MethodHealth        = "/" + ServiceName + "/Health"
)

// DepotViewServer is the server API for the DepotView service
type DepotViewServer interface {
	// ParseRevision parses a revision specifier
	ParseRevision(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// Project views records through a named node shape
	Project(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Resolve resolves a revision specifier against file revision records
	Resolve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Health reports service status
	Health(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterDepotViewServer registers srv with s
func RegisterDepotViewServer(s grpc.ServiceRegistrar, srv DepotViewServer) {
	s.RegisterService(&DepotViewServiceDesc, srv)
}

// DepotViewServiceDesc describes the DepotView service
var DepotViewServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DepotViewServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ParseRevision",
			Handler:    unaryHandler(MethodParseRevision, DepotViewServer.ParseRevision),
		},
		{
			MethodName: "Project",
			Handler:    unaryHandler(MethodProject, DepotViewServer.Project),
		},
		{
			MethodName: "Resolve",
			Handler:    unaryHandler(MethodResolve, DepotViewServer.Resolve),
		},
		{
			MethodName: "Health",
			Handler:    unaryHandler(MethodHealth, DepotViewServer.Health),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "depotview/v1/depotview.proto",
}

// unaryHandler adapts a typed method to grpc.MethodHandler, decoding the
// request into a fresh Req and running any interceptor.
func unaryHandler[Req any, PReq interface {
	*Req
	proto.Message
}](fullMethod string, call func(DepotViewServer, context.Context, PReq) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DepotViewServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DepotViewServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}
