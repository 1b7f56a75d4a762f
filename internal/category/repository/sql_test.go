package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-ledger-service/internal/database"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

func newRepo(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := database.Open(context.Background(), &database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLRepository(db)
}

func TestCategoryCRUD(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	cat, err := model.NewCategory(model.CategoryParams{Name: "Tools"})
	require.NoError(t, err)
	id, err := repo.Save(ctx, cat)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tools", got.Name)
	assert.Equal(t, cat.Code, got.Code)

	got.Name = "Hand tools"
	require.NoError(t, repo.Update(ctx, got))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Hand tools", all[0].Name)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), model.ErrNotFound)
}
