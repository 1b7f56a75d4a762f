package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/omnipos-ledger-service/internal/grpcutil"
)

const ProductServiceName = "omnipos.ledger.v1.ProductService"

type ProductServiceServer interface {
	CreateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetProductQuantity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var ProductService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcutil.Unary(ProductServiceName, "CreateProduct", ProductServiceServer.CreateProduct),
		grpcutil.Unary(ProductServiceName, "GetProduct", ProductServiceServer.GetProduct),
		grpcutil.Unary(ProductServiceName, "ListProducts", ProductServiceServer.ListProducts),
		grpcutil.Unary(ProductServiceName, "UpdateProduct", ProductServiceServer.UpdateProduct),
		grpcutil.Unary(ProductServiceName, "SetProductQuantity", ProductServiceServer.SetProductQuantity),
		grpcutil.Unary(ProductServiceName, "DeleteProduct", ProductServiceServer.DeleteProduct),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductService_ServiceDesc, srv)
}
