// Package grpcutil carries the pieces shared by the hand-written gRPC services: unary method
// descriptors over structpb messages, request field decoding and error to status mapping.
package grpcutil

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Unary builds a method descriptor whose request and response are structpb.Struct.
// call is usually a method expression such as ProductServiceServer.CreateProduct.
func Unary[S any](service, method string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod returns the path a client passes to grpc.ClientConn.Invoke.
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}
