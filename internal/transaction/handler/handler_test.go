package handler

import (
	"context"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/omnipos-ledger-service/internal/grpcutil"
	"github.com/fekuna/omnipos-ledger-service/internal/middleware"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/product/producttest"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction/transactiontest"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction/usecase"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

func dial(t *testing.T, products *producttest.MemoryRepository) *grpc.ClientConn {
	t.Helper()
	log := logger.NewNop()
	uc := usecase.NewTransactionUseCase(transactiontest.NewMemoryRepository(), products, usecase.Options{PageSize: 6}, log)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(middleware.UnaryServerInterceptor(log, nil)))
	RegisterTransactionServiceServer(srv, NewTransactionHandler(uc, log))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func call(t *testing.T, conn *grpc.ClientConn, method string, req map[string]any) (grpcutil.Fields, error) {
	t.Helper()
	in, err := structpb.NewStruct(req)
	require.NoError(t, err)
	out := new(structpb.Struct)
	err = conn.Invoke(context.Background(), grpcutil.FullMethod(TransactionServiceName, method), in, out)
	return grpcutil.FieldsOf(out), err
}

func widgetRepo(t *testing.T) *producttest.MemoryRepository {
	t.Helper()
	p, err := model.NewProduct(model.ProductParams{ID: "w", Name: "Widget", CostPrice: decimal.NewFromInt(10), SalePrice: decimal.NewFromInt(20)})
	require.NoError(t, err)
	return producttest.NewMemoryRepository(p)
}

func TestTransactionServiceFlow(t *testing.T) {
	products := widgetRepo(t)
	conn := dial(t, products)

	_, err := call(t, conn, "CreateTransaction", map[string]any{
		"type":  "purchase",
		"date":  "2025-06-01",
		"items": []any{map[string]any{"product_id": "w", "quantity": 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, products.Stock("w"))

	resp, err := call(t, conn, "CreateTransaction", map[string]any{
		"type":        "sale",
		"description": "walk-in",
		"items":       []any{map[string]any{"product_id": "w", "quantity": 3}},
	})
	require.NoError(t, err)
	sold, err := resp.Struct("transaction")
	require.NoError(t, err)
	assert.Equal(t, "60", sold.String("value"))
	items, err := sold.List("items")
	require.NoError(t, err)
	require.Len(t, items, 1)
	line := grpcutil.FieldsOf(items[0].GetStructValue())
	assert.Equal(t, "Widget", line.String("name"))
	assert.Equal(t, "20", line.String("unit_price"))

	_, err = call(t, conn, "CreateTransaction", map[string]any{
		"type":  "sale",
		"items": []any{map[string]any{"product_id": "w", "quantity": 5}},
	})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Equal(t, 2, products.Stock("w"))

	resp, err = call(t, conn, "ListTransactions", map[string]any{"type": "sale"})
	require.NoError(t, err)
	total, _ := resp.Int("total")
	assert.Equal(t, 1, total)

	resp, err = call(t, conn, "GetCashFlow", map[string]any{})
	require.NoError(t, err)
	cf, err := resp.Struct("cash_flow")
	require.NoError(t, err)
	assert.Equal(t, "60", cf.String("sales"))
	assert.Equal(t, "50", cf.String("purchases"))
	assert.Equal(t, "10", cf.String("balance"))

	_, err = call(t, conn, "DeleteTransaction", map[string]any{"id": sold.String("id")})
	require.NoError(t, err)
	assert.Equal(t, 5, products.Stock("w"))

	_, err = call(t, conn, "GetTransaction", map[string]any{"id": sold.String("id")})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestTransactionServiceErrors(t *testing.T) {
	conn := dial(t, widgetRepo(t))

	_, err := call(t, conn, "CreateTransaction", map[string]any{"type": "aporte", "value": "abc"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = call(t, conn, "CreateTransaction", map[string]any{"type": "sale", "items": []any{"w"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = call(t, conn, "CreateTransaction", map[string]any{"type": "aporte", "value": 0})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = call(t, conn, "DeleteTransaction", map[string]any{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = call(t, conn, "ListTransactions", map[string]any{"start_date": "yesterday"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	resp, err := call(t, conn, "CreateTransaction", map[string]any{"type": "service", "value": 40})
	require.NoError(t, err)
	created, _ := resp.Struct("transaction")

	_, err = call(t, conn, "UpdateTransaction", map[string]any{"id": created.String("id"), "type": "purchase", "value": 40})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	resp, err = call(t, conn, "UpdateTransaction", map[string]any{"id": created.String("id"), "value": "45.50"})
	require.NoError(t, err)
	updated, _ := resp.Struct("transaction")
	assert.Equal(t, "45.5", updated.String("value"))
}
