package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-ledger-service/internal/database"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func newRepo(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := database.Open(context.Background(), &database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLRepository(db)
}

func sale(t *testing.T, date time.Time) *model.Transaction {
	t.Helper()
	tx, err := model.NewTransaction(model.TransactionParams{
		Type:        model.TransactionSale,
		Description: "counter sale",
		Value:       d("55"),
		Discount:    d("5"),
		Date:        date,
		Items: []model.TransactionItem{
			{ProductID: "p1", Name: "Widget", Quantity: 2, UnitPrice: d("20")},
			{ProductID: "p2", Name: "Gadget", Quantity: 1, UnitPrice: d("20")},
		},
	})
	require.NoError(t, err)
	return tx
}

func TestSaveAndGetKeepsItemOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC)

	id, err := repo.Save(ctx, sale(t, date))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionSale, got.Type)
	assert.Equal(t, "counter sale", got.Description)
	assert.True(t, got.Value.Equal(d("55")))
	assert.True(t, got.Discount.Equal(d("5")))
	assert.True(t, got.Date.Equal(date))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "p1", got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "Gadget", got.Items[1].Name)
}

func TestSaveWithoutItems(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	tx, err := model.NewTransaction(model.TransactionParams{Type: model.TransactionAporte, Value: d("50")})
	require.NoError(t, err)

	id, err := repo.Save(ctx, tx)
	require.NoError(t, err)
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.True(t, got.Discount.IsZero())
}

func TestUpdateReplacesRecord(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	tx := sale(t, time.Now())
	_, err := repo.Save(ctx, tx)
	require.NoError(t, err)

	tx.Description = "edited"
	tx.Items = tx.Items[:1]
	require.NoError(t, repo.Update(ctx, tx))

	got, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Description)
	assert.Len(t, got.Items, 1)

	ghost := sale(t, time.Now())
	ghost.ID = "ghost"
	assert.ErrorIs(t, repo.Update(ctx, ghost), model.ErrNotFound)
}

func TestGetAllGroupsItemsAndOrdersByDate(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	later := sale(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC))
	earlier := sale(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	_, err := repo.Save(ctx, later)
	require.NoError(t, err)
	_, err = repo.Save(ctx, earlier)
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, earlier.ID, all[0].ID)
	assert.Len(t, all[0].Items, 2)
	assert.Len(t, all[1].Items, 2)
}

func TestDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	tx := sale(t, time.Now())
	_, err := repo.Save(ctx, tx)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, tx.ID))
	_, err = repo.GetByID(ctx, tx.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, tx.ID), model.ErrNotFound)

	var orphans int
	require.NoError(t, repo.DB.Get(&orphans, `SELECT count(*) FROM transaction_items`))
	assert.Zero(t, orphans)
}
