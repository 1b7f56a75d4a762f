package product

import (
	"context"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

// Repository is the product store. Lookups of unknown ids fail with *model.NotFoundError.
type Repository interface {
	// Save assigns an id when the product has none and returns it.
	Save(ctx context.Context, product *model.Product) (string, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetAll(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
}
