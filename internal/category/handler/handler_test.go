package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/omnipos-ledger-service/config"
	"github.com/fekuna/omnipos-ledger-service/internal/category/repository"
	"github.com/fekuna/omnipos-ledger-service/internal/category/usecase"
	"github.com/fekuna/omnipos-ledger-service/internal/database"
	"github.com/fekuna/omnipos-ledger-service/internal/grpcutil"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

func newHandler(t *testing.T) *CategoryHandler {
	t.Helper()
	db, err := database.Open(context.Background(), &database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	log := logger.NewNop()
	uc := usecase.NewCategoryUseCase(repository.NewSQLRepository(db), config.LedgerConfig{PageSize: 6}, log)
	return NewCategoryHandler(uc, log)
}

func req(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestCategoryHandler(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	out, err := h.CreateCategory(ctx, req(t, map[string]any{"name": "Drinks", "code": 1234}))
	require.NoError(t, err)
	cat, err := grpcutil.FieldsOf(out).Struct("category")
	require.NoError(t, err)
	id := cat.String("id")
	code, _ := cat.Int("code")
	assert.Equal(t, 1234, code)

	out, err = h.UpdateCategory(ctx, req(t, map[string]any{"id": id, "name": "Beverages"}))
	require.NoError(t, err)
	cat, _ = grpcutil.FieldsOf(out).Struct("category")
	assert.Equal(t, "Beverages", cat.String("name"))

	out, err = h.ListCategories(ctx, req(t, map[string]any{}))
	require.NoError(t, err)
	total, _ := grpcutil.FieldsOf(out).Int("total")
	assert.Equal(t, 1, total)

	_, err = h.DeleteCategory(ctx, req(t, map[string]any{"id": id}))
	require.NoError(t, err)

	_, err = h.GetCategory(ctx, req(t, map[string]any{"id": id}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.CreateCategory(ctx, req(t, map[string]any{"name": ""}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
