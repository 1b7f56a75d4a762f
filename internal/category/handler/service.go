package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/omnipos-ledger-service/internal/grpcutil"
)

const CategoryServiceName = "omnipos.ledger.v1.CategoryService"

type CategoryServiceServer interface {
	CreateCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var CategoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CategoryServiceName,
	HandlerType: (*CategoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcutil.Unary(CategoryServiceName, "CreateCategory", CategoryServiceServer.CreateCategory),
		grpcutil.Unary(CategoryServiceName, "GetCategory", CategoryServiceServer.GetCategory),
		grpcutil.Unary(CategoryServiceName, "ListCategories", CategoryServiceServer.ListCategories),
		grpcutil.Unary(CategoryServiceName, "UpdateCategory", CategoryServiceServer.UpdateCategory),
		grpcutil.Unary(CategoryServiceName, "DeleteCategory", CategoryServiceServer.DeleteCategory),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterCategoryServiceServer(s grpc.ServiceRegistrar, srv CategoryServiceServer) {
	s.RegisterService(&CategoryService_ServiceDesc, srv)
}
