package grpcutil

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestFieldsDecode(t *testing.T) {
	f := FieldsOf(mustStruct(t, map[string]any{
		"name":     "Widget",
		"qty":      5,
		"qty_str":  "7",
		"price":    "19.90",
		"price_n":  2.5,
		"date":     "2025-05-01T10:00:00Z",
		"day":      "2025-05-02",
		"items":    []any{map[string]any{"product_id": "p1"}},
		"nested":   map[string]any{"a": "b"},
		"nothing":  nil,
		"fraction": 1.5,
	}))

	assert.Equal(t, "Widget", f.String("name"))
	assert.Equal(t, "", f.String("missing"))
	assert.False(t, f.Has("nothing"))
	assert.True(t, f.Has("name"))

	n, err := f.Int("qty")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	n, err = f.Int("qty_str")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	_, err = f.Int("fraction")
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = f.Int("name")
	assert.ErrorIs(t, err, model.ErrValidation)

	d, err := f.Decimal("price")
	require.NoError(t, err)
	assert.Equal(t, "19.9", d.String())
	d, err = f.Decimal("price_n")
	require.NoError(t, err)
	assert.Equal(t, "2.5", d.String())
	d, err = f.Decimal("missing")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
	_, err = f.Decimal("name")
	assert.ErrorIs(t, err, model.ErrValidation)

	ts, err := f.Time("date")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC), ts)
	ts, err = f.Time("day")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.Local), ts)
	_, err = f.Time("name")
	assert.ErrorIs(t, err, model.ErrValidation)
	tp, err := f.TimePtr("missing")
	require.NoError(t, err)
	assert.Nil(t, tp)

	items, err := f.List("items")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", FieldsOf(items[0].GetStructValue()).String("product_id"))
	_, err = f.List("name")
	assert.ErrorIs(t, err, model.ErrValidation)

	nested, err := f.Struct("nested")
	require.NoError(t, err)
	assert.Equal(t, "b", nested.String("a"))
}

func TestFieldsOfNil(t *testing.T) {
	f := FieldsOf(nil)
	assert.Equal(t, "", f.String("x"))
	n, err := f.Int("x")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{nil, codes.OK},
		{&model.ValidationError{Field: "name"}, codes.InvalidArgument},
		{fmt.Errorf("get: %w", model.NewNotFoundError("product", "1")), codes.NotFound},
		{&model.InsufficientStockError{ProductName: "Widget"}, codes.FailedPrecondition},
		{model.NewInvalidOperationError("delete transaction", "id is required"), codes.FailedPrecondition},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{status.Error(codes.Unavailable, "down"), codes.Unavailable},
		{errors.New("disk on fire"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.err), "%v", tt.err)
	}
}

func TestToStatus(t *testing.T) {
	assert.NoError(t, ToStatus(nil))

	err := ToStatus(fmt.Errorf("create transaction: %w", &model.InsufficientStockError{ProductName: "Widget", Available: 2, Requested: 5}))
	s, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.FailedPrecondition, s.Code())
	assert.Equal(t, "create transaction: insufficient stock for Widget: available 2, requested 5", s.Message())

	orig := status.Error(codes.Unauthenticated, "no")
	assert.Equal(t, orig, ToStatus(orig))
}

type echoServer interface {
	Echo(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type echo struct{}

func (echo) Echo(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) { return in, nil }

func TestUnaryRunsInterceptor(t *testing.T) {
	desc := Unary("test.Echo", "Echo", echoServer.Echo)
	assert.Equal(t, "Echo", desc.MethodName)

	in := mustStruct(t, map[string]any{"a": "b"})
	dec := func(v any) error {
		proto.Merge(v.(*structpb.Struct), in)
		return nil
	}

	var seen string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return handler(ctx, req)
	}

	out, err := desc.Handler(echo{}, context.Background(), dec, interceptor)
	require.NoError(t, err)
	assert.Equal(t, FullMethod("test.Echo", "Echo"), seen)
	assert.Equal(t, "b", FieldsOf(out.(*structpb.Struct)).String("a"))

	out, err = desc.Handler(echo{}, context.Background(), dec, nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
}
