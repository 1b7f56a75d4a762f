package usecase

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-ledger-service/config"
	"github.com/fekuna/omnipos-ledger-service/internal/category"
	"github.com/fekuna/omnipos-ledger-service/internal/category/dto"
	"github.com/fekuna/omnipos-ledger-service/internal/listing"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

type categoryUseCase struct {
	repo   category.Repository
	cfg    config.LedgerConfig
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, cfg config.LedgerConfig, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		cfg:    cfg,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	cat, err := model.NewCategory(model.CategoryParams{Name: input.Name, Code: input.Code})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	id, err := uc.repo.Save(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("create category: save: %w", err)
	}
	cat.ID = id

	uc.logger.Info("category created", zap.String("category_id", cat.ID), zap.Int("code", cat.Code))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return cat, nil
}

// ListCategories returns categories sorted by name, optionally narrowed to a name or code match.
func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	all, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(filters.SearchQuery))
	matched := make([]model.Category, 0, len(all))
	for _, c := range all {
		if term == "" || strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strconv.Itoa(c.Code), term) {
			matched = append(matched, c)
		}
	}
	slices.SortStableFunc(matched, func(a, b model.Category) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	pageSize := filters.PageSize
	if pageSize == 0 {
		pageSize = uc.cfg.PageSize
	}
	page := listing.Paginate(matched, filters.Page, pageSize)
	return page.Items, page.TotalItems, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	existing, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	code := input.Code
	if code == 0 {
		code = existing.Code
	}
	cat, err := model.NewCategory(model.CategoryParams{
		ID:        existing.ID,
		Name:      input.Name,
		Code:      code,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, fmt.Errorf("update category: save: %w", err)
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	uc.logger.Info("category deleted", zap.String("category_id", id))
	return nil
}
