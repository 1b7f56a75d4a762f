package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-ledger-service/internal/cashflow"
	"github.com/fekuna/omnipos-ledger-service/internal/listing"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction/dto"
)

const (
	cashFlowGenerationKey = "ledger:cashflow:gen"
	cashFlowKeyPrefix     = "ledger:cashflow:metrics:"
	cashFlowKeyPattern    = cashFlowKeyPrefix + "*"
)

// CashFlow computes metrics relative to the current month. Unfiltered results are cached
// under the write generation read before the snapshot, so a result computed from data that a
// concurrent write already changed is never served.
func (uc *transactionUseCase) CashFlow(ctx context.Context, filters *dto.CashFlowFilters) (*cashflow.Metrics, error) {
	now := uc.now()
	cacheable := uc.cache != nil && filters.IsZero()

	var key string
	if cacheable {
		gen, err := uc.cache.GetInt(ctx, cashFlowGenerationKey)
		if err != nil {
			uc.logger.Warn("cash-flow cache generation unavailable", zap.Error(err))
			cacheable = false
		}
		key = cashFlowKey(gen, now)
	}

	if cacheable {
		var cached cashflow.Metrics
		hit, err := uc.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			uc.logger.Warn("cash-flow cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		uc.metrics.ObserveCacheLookup(hit)
		if hit {
			return &cached, nil
		}
	}

	txs, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("cash flow: %w", err)
	}
	if !filters.IsZero() {
		f, err := transactionFilter(filters.Type, filters.SearchQuery, filters.StartDate, filters.EndDate)
		if err != nil {
			return nil, fmt.Errorf("cash flow: %w", err)
		}
		txs = listing.FilterTransactions(txs, f)
	}

	metrics := cashflow.Compute(txs, now)

	if cacheable {
		if err := uc.cache.SetJSON(ctx, key, metrics, uc.cacheTTL); err != nil {
			uc.logger.Warn("failed to cache cash-flow metrics", zap.String("key", key), zap.Error(err))
		}
	}
	return &metrics, nil
}

func cashFlowKey(gen int64, now time.Time) string {
	return fmt.Sprintf("%s%d:%s:%s", cashFlowKeyPrefix, gen, now.Format("2006-01"), now.Location())
}
