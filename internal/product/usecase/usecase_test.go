package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-ledger-service/config"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/product/dto"
	"github.com/fekuna/omnipos-ledger-service/internal/product/producttest"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

var ledgerCfg = config.LedgerConfig{LowStockThreshold: 10, PageSize: 2}

func newUseCase() (*productUseCase, *producttest.MemoryRepository) {
	repo := producttest.NewMemoryRepository()
	return NewProductUseCase(repo, ledgerCfg, logger.NewNop()).(*productUseCase), repo
}

func widgetInput() *dto.CreateProductInput {
	return &dto.CreateProductInput{Name: "Widget", CostPrice: d("10"), SalePrice: d("20")}
}

func TestCreateProduct(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()

	p, err := uc.CreateProduct(ctx, widgetInput())
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, model.DefaultSupplier, p.Supplier)
	assert.GreaterOrEqual(t, p.Code, 100000)
	assert.Equal(t, 0, repo.Stock(p.ID))
}

func TestCreateProductValidation(t *testing.T) {
	uc, _ := newUseCase()
	in := widgetInput()
	in.SalePrice = d("5")

	_, err := uc.CreateProduct(context.Background(), in)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "create product")
}

func TestGetProductNotFound(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.GetProduct(context.Background(), "missing")
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
}

func TestUpdateProductTracksLastSalePrice(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, widgetInput())
	require.NoError(t, err)

	updated, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: p.ID, Name: "Widget XL", CostPrice: d("30"), SalePrice: d("25"), Supplier: "ACME",
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", updated.Name)
	assert.Equal(t, p.Code, updated.Code)
	assert.True(t, updated.SalePrice.Equal(d("25")))
	require.NotNil(t, updated.LastSalePrice)
	assert.True(t, updated.LastSalePrice.Equal(d("20")))

	stored, err := uc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME", stored.Supplier)
	// sale >= cost is only checked at creation
	assert.True(t, stored.CostPrice.Equal(d("30")))
}

func TestSetProductQuantity(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, widgetInput())
	require.NoError(t, err)

	_, err = uc.SetProductQuantity(ctx, p.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, repo.Stock(p.ID))

	_, err = uc.SetProductQuantity(ctx, p.ID, -1)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, 12, repo.Stock(p.ID))

	_, err = uc.SetProductQuantity(ctx, "missing", 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListProductsFiltersAndPaginates(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	for _, name := range []string{"Delta", "Alpha", "Charlie", "Bravo"} {
		in := widgetInput()
		in.Name = name
		in.Stock = len(name)
		_, err := uc.CreateProduct(ctx, in)
		require.NoError(t, err)
	}

	items, total, err := uc.ListProducts(ctx, &dto.ProductFilters{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Name)
	assert.Equal(t, "Bravo", items[1].Name)

	items, total, err = uc.ListProducts(ctx, &dto.ProductFilters{SearchQuery: "ha", SortBy: "stock", SortOrder: "desc", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Charlie", items[0].Name)
	assert.Equal(t, "Alpha", items[1].Name)
}

func TestDeleteProduct(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()
	p, err := uc.CreateProduct(ctx, widgetInput())
	require.NoError(t, err)

	require.NoError(t, uc.DeleteProduct(ctx, p.ID))
	assert.Equal(t, -1, repo.Stock(p.ID))
	assert.ErrorIs(t, uc.DeleteProduct(ctx, p.ID), model.ErrNotFound)
}
