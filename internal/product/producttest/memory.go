// Package producttest provides an in-memory product.Repository for tests.
package producttest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

var ErrInjected = errors.New("injected update failure")

type MemoryRepository struct {
	mu       sync.Mutex
	products map[string]*model.Product
	order    []string

	// FailUpdateOn makes the Nth call to Update (1-based) fail with ErrInjected.
	FailUpdateOn int
	UpdateCalls  int
}

func NewMemoryRepository(products ...*model.Product) *MemoryRepository {
	r := &MemoryRepository{products: map[string]*model.Product{}}
	for _, p := range products {
		if _, err := r.Save(context.Background(), p); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *MemoryRepository) Save(_ context.Context, p *model.Product) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := r.products[p.ID]; exists {
		return "", fmt.Errorf("product %s already exists", p.ID)
	}
	r.products[p.ID] = p.Clone()
	r.order = append(r.order, p.ID)
	return p.ID, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, model.NewNotFoundError("product", id)
	}
	return p.Clone(), nil
}

func (r *MemoryRepository) GetAll(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.products[id].Clone())
	}
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UpdateCalls++
	if r.FailUpdateOn > 0 && r.UpdateCalls == r.FailUpdateOn {
		return ErrInjected
	}
	if _, ok := r.products[p.ID]; !ok {
		return model.NewNotFoundError("product", p.ID)
	}
	r.products[p.ID] = p.Clone()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return model.NewNotFoundError("product", id)
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Stock is a test shortcut returning the stored stock, or -1 for an unknown id.
func (r *MemoryRepository) Stock(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return -1
	}
	return p.Stock
}
