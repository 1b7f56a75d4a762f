package transaction

import (
	"context"

	"github.com/fekuna/omnipos-ledger-service/internal/cashflow"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction/dto"
)

type UseCase interface {
	// CreateTransaction applies the stock effects of a sale or purchase, then stores the record.
	CreateTransaction(ctx context.Context, input *dto.CreateTransactionInput) (*model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.Transaction, int, error)
	UpdateTransaction(ctx context.Context, input *dto.UpdateTransactionInput) (*model.Transaction, error)
	// DeleteTransaction reverses the stock effects of the stored record, then removes it.
	DeleteTransaction(ctx context.Context, id string) error
	CashFlow(ctx context.Context, filters *dto.CashFlowFilters) (*cashflow.Metrics, error)
}
