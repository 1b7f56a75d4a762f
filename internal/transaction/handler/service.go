package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/omnipos-ledger-service/internal/grpcutil"
)

const TransactionServiceName = "omnipos.ledger.v1.TransactionService"

type TransactionServiceServer interface {
	CreateTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCashFlow(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var TransactionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: TransactionServiceName,
	HandlerType: (*TransactionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcutil.Unary(TransactionServiceName, "CreateTransaction", TransactionServiceServer.CreateTransaction),
		grpcutil.Unary(TransactionServiceName, "GetTransaction", TransactionServiceServer.GetTransaction),
		grpcutil.Unary(TransactionServiceName, "ListTransactions", TransactionServiceServer.ListTransactions),
		grpcutil.Unary(TransactionServiceName, "UpdateTransaction", TransactionServiceServer.UpdateTransaction),
		grpcutil.Unary(TransactionServiceName, "DeleteTransaction", TransactionServiceServer.DeleteTransaction),
		grpcutil.Unary(TransactionServiceName, "GetCashFlow", TransactionServiceServer.GetCashFlow),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterTransactionServiceServer(s grpc.ServiceRegistrar, srv TransactionServiceServer) {
	s.RegisterService(&TransactionService_ServiceDesc, srv)
}
