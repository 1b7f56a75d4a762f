package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-ledger-service/internal/listing"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/observability"
	"github.com/fekuna/omnipos-ledger-service/internal/product"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction/dto"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

// Options carries the optional collaborators. Nil Cache, Events and Metrics are skipped.
type Options struct {
	Cache    transaction.MetricsCache
	CacheTTL time.Duration
	Events   transaction.EventPublisher
	Metrics  *observability.Metrics
	PageSize int
	Now      func() time.Time
}

type transactionUseCase struct {
	repo     transaction.Repository
	products product.Repository
	cache    transaction.MetricsCache
	cacheTTL time.Duration
	events   transaction.EventPublisher
	metrics  *observability.Metrics
	pageSize int
	now      func() time.Time
	logger   logger.ZapLogger
}

func NewTransactionUseCase(repo transaction.Repository, products product.Repository, opts Options, log logger.ZapLogger) transaction.UseCase {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &transactionUseCase{
		repo:     repo,
		products: products,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		events:   opts.Events,
		metrics:  opts.Metrics,
		pageSize: opts.PageSize,
		now:      now,
		logger:   log,
	}
}

func (uc *transactionUseCase) CreateTransaction(ctx context.Context, input *dto.CreateTransactionInput) (tx *model.Transaction, err error) {
	txType, err := model.ParseTransactionType(input.Type)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	defer func() { uc.metrics.ObserveTransaction("create", string(txType), err) }()

	// Phase one: every product is loaded and every movement is applied in memory, so a
	// missing product or short stock aborts before anything is written.
	var plan *stockPlan
	if txType.AffectsStock() {
		plan, err = uc.loadProducts(ctx, productIDs(input.Items))
		if err != nil {
			return nil, fmt.Errorf("create transaction: %w", err)
		}
	}

	items := buildItems(txType, input.Items, plan)
	tx, err = model.NewTransaction(model.TransactionParams{
		Type:        txType,
		Description: strings.TrimSpace(input.Description),
		Value:       model.ComputeValue(txType, items, input.Value, input.Discount),
		Date:        input.Date,
		Items:       items,
		Discount:    input.Discount,
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if plan != nil {
		direction, err := stockDirection(tx.Type)
		if err != nil {
			return nil, fmt.Errorf("create transaction: %w", err)
		}
		err = plan.apply(tx.Items, func(p *model.Product, item model.TransactionItem) error {
			return p.UpdateStock(item.Quantity, direction)
		})
		if err != nil {
			return nil, fmt.Errorf("create transaction: %w", err)
		}

		// Phase two. A failure here leaves the products written so far updated.
		if err := uc.persistProducts(ctx, plan, "create"); err != nil {
			return nil, fmt.Errorf("create transaction: %w", err)
		}
		uc.metrics.AddStockMovement(string(direction), totalQuantity(tx.Items))
	}

	id, err := uc.repo.Save(ctx, tx)
	if err != nil {
		uc.logger.Error("transaction not saved after stock update",
			zap.String("type", string(tx.Type)),
			zap.Int("products_updated", plan.len()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create transaction: save: %w", err)
	}
	tx.ID = id

	uc.logger.Info("transaction created",
		zap.String("transaction_id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.String("value", tx.Value.String()),
	)
	uc.afterWrite(ctx, transaction.EventTransactionCreated, tx)
	return tx, nil
}

func (uc *transactionUseCase) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	tx, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (uc *transactionUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error) {
	all, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}

	f, err := transactionFilter(filters.Type, filters.SearchQuery, filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	f.SortBy = listing.TransactionSortField(filters.SortBy)
	f.SortOrder = listing.ParseSortOrder(filters.SortOrder, listing.Desc)

	pageSize := filters.PageSize
	if pageSize == 0 {
		pageSize = uc.pageSize
	}
	page := listing.Paginate(listing.FilterTransactions(all, f), filters.Page, pageSize)
	return page.Items, page.TotalItems, nil
}

// UpdateTransaction replaces a stored record. Sales and purchases keep their type and line
// items since stock already reflects them; description, date, discount and value may change.
func (uc *transactionUseCase) UpdateTransaction(ctx context.Context, input *dto.UpdateTransactionInput) (tx *model.Transaction, err error) {
	existing, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	defer func() { uc.metrics.ObserveTransaction("update", string(existing.Type), err) }()

	txType := existing.Type
	if strings.TrimSpace(input.Type) != "" {
		if txType, err = model.ParseTransactionType(input.Type); err != nil {
			return nil, fmt.Errorf("update transaction: %w", err)
		}
	}

	items := existing.Items
	if existing.Type.AffectsStock() || txType.AffectsStock() {
		if txType != existing.Type {
			return nil, model.NewInvalidOperationError("update transaction",
				fmt.Sprintf("cannot change type of a %s transaction to %s", existing.Type, txType))
		}
		if len(input.Items) > 0 && !sameItems(existing.Items, input.Items) {
			return nil, model.NewInvalidOperationError("update transaction",
				fmt.Sprintf("line items of a %s transaction cannot change; delete and recreate it", existing.Type))
		}
	} else {
		items = buildItems(txType, input.Items, nil)
	}

	date := input.Date
	if date.IsZero() {
		date = existing.Date
	}
	tx, err = model.NewTransaction(model.TransactionParams{
		ID:          existing.ID,
		Type:        txType,
		Description: strings.TrimSpace(input.Description),
		Value:       model.ComputeValue(txType, items, input.Value, input.Discount),
		Date:        date,
		Items:       items,
		Discount:    input.Discount,
	})
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	if err := uc.repo.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("update transaction: save: %w", err)
	}

	uc.logger.Info("transaction updated", zap.String("transaction_id", tx.ID), zap.String("type", string(tx.Type)))
	uc.afterWrite(ctx, transaction.EventTransactionUpdated, tx)
	return tx, nil
}

func (uc *transactionUseCase) DeleteTransaction(ctx context.Context, id string) (err error) {
	if strings.TrimSpace(id) == "" {
		return model.NewInvalidOperationError("delete transaction", "transaction id is required")
	}

	tx, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	defer func() { uc.metrics.ObserveTransaction("delete", string(tx.Type), err) }()

	if len(tx.Items) > 0 {
		plan, err := uc.loadProducts(ctx, itemProductIDs(tx.Items))
		if err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		err = plan.apply(tx.Items, func(p *model.Product, item model.TransactionItem) error {
			change, err := reversal(tx.Type, item.Quantity)
			if err != nil {
				return err
			}
			if change < 0 && -change > p.Stock {
				return model.NewInvalidOperationError("reverse stock",
					fmt.Sprintf("reversing the purchase would take stock of %s below zero: available %d, removing %d", p.Name, p.Stock, -change))
			}
			return p.UpdateStock(change, model.StockPurchase)
		})
		if err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		if err := uc.persistProducts(ctx, plan, "delete"); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	uc.logger.Info("transaction deleted", zap.String("transaction_id", id), zap.String("type", string(tx.Type)))
	uc.afterWrite(ctx, transaction.EventTransactionDeleted, tx)
	return nil
}

// afterWrite drops cached metrics and announces the change. Neither failure undoes the write.
func (uc *transactionUseCase) afterWrite(ctx context.Context, eventType string, tx *model.Transaction) {
	if uc.cache != nil {
		// Bump the generation first: a CashFlow that snapshotted before this write stores
		// its result under the old generation, which is never read again.
		if _, err := uc.cache.Incr(ctx, cashFlowGenerationKey); err != nil {
			uc.logger.Warn("failed to bump cash-flow cache generation", zap.Error(err))
		}
		if _, err := uc.cache.DeletePattern(ctx, cashFlowKeyPattern); err != nil {
			uc.logger.Warn("failed to invalidate cash-flow cache", zap.Error(err))
		}
	}
	if uc.events != nil {
		if err := uc.events.Publish(ctx, eventType, tx); err != nil {
			uc.logger.Error("failed to publish transaction event",
				zap.String("event_type", eventType),
				zap.String("transaction_id", tx.ID),
				zap.Error(err),
			)
		}
	}
}

func transactionFilter(txType, search string, start, end *time.Time) (listing.TransactionFilter, error) {
	f := listing.TransactionFilter{SearchTerm: search, StartDate: start, EndDate: end}
	if txType != "" && txType != "all" {
		t, err := model.ParseTransactionType(txType)
		if err != nil {
			return f, err
		}
		f.Type = t
	}
	return f, nil
}
