package transaction

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

const (
	EventTransactionCreated = "ledger.transaction.created"
	EventTransactionUpdated = "ledger.transaction.updated"
	EventTransactionDeleted = "ledger.transaction.deleted"
)

// EventPublisher announces ledger writes that already happened.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, tx *model.Transaction) error
}

// MetricsCache stores computed cash-flow metrics between writes. GetInt and Incr drive the
// generation counter that keys the cached values.
type MetricsCache interface {
	GetInt(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
}
