package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-ledger-service/config"
	"github.com/fekuna/omnipos-ledger-service/internal/listing"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/product"
	"github.com/fekuna/omnipos-ledger-service/internal/product/dto"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

type productUseCase struct {
	repo   product.Repository
	cfg    config.LedgerConfig
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, cfg config.LedgerConfig, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cfg:    cfg,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	p, err := model.NewProduct(model.ProductParams{
		Name:        input.Name,
		Code:        input.Code,
		CostPrice:   input.CostPrice,
		SalePrice:   input.SalePrice,
		Supplier:    input.Supplier,
		Description: input.Description,
		Stock:       input.Stock,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	id, err := uc.repo.Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: save: %w", err)
	}
	p.ID = id

	uc.logger.Info("product created", zap.String("product_id", p.ID), zap.Int("code", p.Code))
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	all, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	matched := listing.FilterProducts(all, listing.ProductFilter{
		SearchTerm:        filters.SearchQuery,
		Stock:             listing.StockFilter(filters.StockFilter),
		LowStockThreshold: uc.cfg.LowStockThreshold,
		SortBy:            listing.ProductSortField(filters.SortBy),
		SortOrder:         listing.ParseSortOrder(filters.SortOrder, listing.Asc),
	})

	pageSize := filters.PageSize
	if pageSize == 0 {
		pageSize = uc.cfg.PageSize
	}
	page := listing.Paginate(matched, filters.Page, pageSize)
	return page.Items, page.TotalItems, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	err = p.Apply(model.ProductEdit{
		Name:        input.Name,
		Code:        input.Code,
		CostPrice:   input.CostPrice,
		SalePrice:   input.SalePrice,
		Supplier:    input.Supplier,
		Description: input.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: save: %w", err)
	}
	return p, nil
}

func (uc *productUseCase) SetProductQuantity(ctx context.Context, id string, quantity int) (*model.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set product quantity: %w", err)
	}
	previous := p.Stock
	if err := p.SetQuantity(quantity); err != nil {
		return nil, fmt.Errorf("set product quantity: %w", err)
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("set product quantity: save: %w", err)
	}

	uc.logger.Info("product quantity set",
		zap.String("product_id", p.ID),
		zap.Int("previous", previous),
		zap.Int("stock", p.Stock),
	)
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	uc.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}
