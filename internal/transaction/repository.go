package transaction

import (
	"context"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

// Repository is the transaction store. Lookups of unknown ids fail with *model.NotFoundError.
type Repository interface {
	Save(ctx context.Context, tx *model.Transaction) (string, error)
	GetByID(ctx context.Context, id string) (*model.Transaction, error)
	GetAll(ctx context.Context) ([]model.Transaction, error)
	// Update replaces the whole record, line items included.
	Update(ctx context.Context, tx *model.Transaction) error
	Delete(ctx context.Context, id string) error
}
