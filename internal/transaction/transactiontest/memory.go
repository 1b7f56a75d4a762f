// Package transactiontest provides an in-memory transaction.Repository for tests.
package transactiontest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

var ErrInjected = errors.New("injected save failure")

type MemoryRepository struct {
	mu    sync.Mutex
	txs   map[string]*model.Transaction
	order []string

	FailSave bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{txs: map[string]*model.Transaction{}}
}

func (r *MemoryRepository) Save(_ context.Context, tx *model.Transaction) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSave {
		return "", ErrInjected
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if _, exists := r.txs[tx.ID]; exists {
		return "", fmt.Errorf("transaction %s already exists", tx.ID)
	}
	r.txs[tx.ID] = tx.Clone()
	r.order = append(r.order, tx.ID)
	return tx.ID, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, model.NewNotFoundError("transaction", id)
	}
	return tx.Clone(), nil
}

func (r *MemoryRepository) GetAll(_ context.Context) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Transaction, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.txs[id].Clone())
	}
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, tx *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[tx.ID]; !ok {
		return model.NewNotFoundError("transaction", tx.ID)
	}
	r.txs[tx.ID] = tx.Clone()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[id]; !ok {
		return model.NewNotFoundError("transaction", id)
	}
	delete(r.txs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.txs)
}
