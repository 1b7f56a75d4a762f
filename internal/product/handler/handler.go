package handler

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/omnipos-ledger-service/internal/grpcutil"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/product"
	"github.com/fekuna/omnipos-ledger-service/internal/product/dto"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

var _ ProductServiceServer = (*ProductHandler)(nil)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	input := &dto.CreateProductInput{
		Name:        f.String("name"),
		Supplier:    f.String("supplier"),
		Description: f.String("description"),
	}
	var err error
	if input.Code, err = f.Int("code"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.CostPrice, err = f.Decimal("cost_price"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.SalePrice, err = f.Decimal("sale_price"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.Stock, err = f.Int("stock"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	p, err := h.uc.CreateProduct(ctx, input)
	if err != nil {
		return nil, h.fail("failed to create product", err)
	}
	return productResponse(p)
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, err := h.uc.GetProduct(ctx, grpcutil.FieldsOf(req).String("id"))
	if err != nil {
		return nil, h.fail("failed to get product", err)
	}
	return productResponse(p)
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	filters := &dto.ProductFilters{
		SearchQuery: f.String("search"),
		StockFilter: f.String("stock_filter"),
		SortBy:      f.String("sort_by"),
		SortOrder:   f.String("sort_order"),
	}
	var err error
	if filters.Page, err = f.Int("page"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if filters.PageSize, err = f.Int("page_size"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	products, total, err := h.uc.ListProducts(ctx, filters)
	if err != nil {
		return nil, h.fail("failed to list products", err)
	}

	list := make([]any, len(products))
	for i := range products {
		list[i] = mapProduct(&products[i])
	}
	return grpcutil.NewStruct(map[string]any{
		"products":  list,
		"total":     total,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	input := &dto.UpdateProductInput{
		ID:          f.String("id"),
		Name:        f.String("name"),
		Supplier:    f.String("supplier"),
		Description: f.String("description"),
	}
	var err error
	if input.Code, err = f.Int("code"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.CostPrice, err = f.Decimal("cost_price"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.SalePrice, err = f.Decimal("sale_price"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	p, err := h.uc.UpdateProduct(ctx, input)
	if err != nil {
		return nil, h.fail("failed to update product", err)
	}
	return productResponse(p)
}

func (h *ProductHandler) SetProductQuantity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	if !f.Has("quantity") {
		return nil, grpcutil.ToStatus(&model.ValidationError{Field: "quantity", Rule: "required", Message: "quantity is required"})
	}
	quantity, err := f.Int("quantity")
	if err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	p, err := h.uc.SetProductQuantity(ctx, f.String("id"), quantity)
	if err != nil {
		return nil, h.fail("failed to set product quantity", err)
	}
	return productResponse(p)
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := h.uc.DeleteProduct(ctx, grpcutil.FieldsOf(req).String("id")); err != nil {
		return nil, h.fail("failed to delete product", err)
	}
	return &structpb.Struct{}, nil
}

func (h *ProductHandler) fail(msg string, err error) error {
	if grpcutil.Code(err) == codes.Internal {
		h.logger.Error(msg, zap.Error(err))
	}
	return grpcutil.ToStatus(err)
}

func productResponse(p *model.Product) (*structpb.Struct, error) {
	return grpcutil.NewStruct(map[string]any{"product": mapProduct(p)})
}

func mapProduct(p *model.Product) map[string]any {
	m := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"code":        p.Code,
		"cost_price":  p.CostPrice.String(),
		"sale_price":  p.SalePrice.String(),
		"supplier":    p.Supplier,
		"description": p.Description,
		"stock":       p.Stock,
		"created_at":  grpcutil.FormatTime(p.CreatedAt),
		"updated_at":  grpcutil.FormatTime(p.UpdatedAt),
	}
	if p.LastSalePrice != nil {
		m["last_sale_price"] = p.LastSalePrice.String()
	}
	return m
}
