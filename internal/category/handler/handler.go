package handler

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/omnipos-ledger-service/internal/category"
	"github.com/fekuna/omnipos-ledger-service/internal/category/dto"
	"github.com/fekuna/omnipos-ledger-service/internal/grpcutil"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

var _ CategoryServiceServer = (*CategoryHandler)(nil)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) CreateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	code, err := f.Int("code")
	if err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	cat, err := h.uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: f.String("name"), Code: code})
	if err != nil {
		return nil, h.fail("failed to create category", err)
	}
	return categoryResponse(cat)
}

func (h *CategoryHandler) GetCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cat, err := h.uc.GetCategory(ctx, grpcutil.FieldsOf(req).String("id"))
	if err != nil {
		return nil, h.fail("failed to get category", err)
	}
	return categoryResponse(cat)
}

func (h *CategoryHandler) ListCategories(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	filters := &dto.CategoryFilters{SearchQuery: f.String("search")}
	var err error
	if filters.Page, err = f.Int("page"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if filters.PageSize, err = f.Int("page_size"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	categories, total, err := h.uc.ListCategories(ctx, filters)
	if err != nil {
		return nil, h.fail("failed to list categories", err)
	}
	list := make([]any, len(categories))
	for i := range categories {
		list[i] = mapCategory(&categories[i])
	}
	return grpcutil.NewStruct(map[string]any{"categories": list, "total": total})
}

func (h *CategoryHandler) UpdateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	code, err := f.Int("code")
	if err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	cat, err := h.uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: f.String("id"), Name: f.String("name"), Code: code})
	if err != nil {
		return nil, h.fail("failed to update category", err)
	}
	return categoryResponse(cat)
}

func (h *CategoryHandler) DeleteCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := h.uc.DeleteCategory(ctx, grpcutil.FieldsOf(req).String("id")); err != nil {
		return nil, h.fail("failed to delete category", err)
	}
	return &structpb.Struct{}, nil
}

func (h *CategoryHandler) fail(msg string, err error) error {
	if grpcutil.Code(err) == codes.Internal {
		h.logger.Error(msg, zap.Error(err))
	}
	return grpcutil.ToStatus(err)
}

func categoryResponse(c *model.Category) (*structpb.Struct, error) {
	return grpcutil.NewStruct(map[string]any{"category": mapCategory(c)})
}

func mapCategory(c *model.Category) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"code":       c.Code,
		"created_at": grpcutil.FormatTime(c.CreatedAt),
		"updated_at": grpcutil.FormatTime(c.UpdatedAt),
	}
}
