package handler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/fekuna/omnipos-ledger-service/internal/cashflow"
	"github.com/fekuna/omnipos-ledger-service/internal/grpcutil"
	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction/dto"
	"github.com/fekuna/omnipos-ledger-service/pkg/logger"
)

var _ TransactionServiceServer = (*TransactionHandler)(nil)

type TransactionHandler struct {
	uc     transaction.UseCase
	logger logger.ZapLogger
}

func NewTransactionHandler(uc transaction.UseCase, log logger.ZapLogger) *TransactionHandler {
	return &TransactionHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TransactionHandler) CreateTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	input := &dto.CreateTransactionInput{
		Type:        f.String("type"),
		Description: f.String("description"),
	}
	var err error
	if input.Value, err = f.Decimal("value"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.Discount, err = f.Decimal("discount"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.Date, err = f.Time("date"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.Items, err = parseItems(f); err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	tx, err := h.uc.CreateTransaction(ctx, input)
	if err != nil {
		return nil, h.fail("failed to create transaction", err)
	}
	return transactionResponse(tx)
}

func (h *TransactionHandler) GetTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tx, err := h.uc.GetTransaction(ctx, grpcutil.FieldsOf(req).String("id"))
	if err != nil {
		return nil, h.fail("failed to get transaction", err)
	}
	return transactionResponse(tx)
}

func (h *TransactionHandler) ListTransactions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	filters := &dto.TransactionFilters{
		SearchQuery: f.String("search"),
		Type:        f.String("type"),
		SortBy:      f.String("sort_by"),
		SortOrder:   f.String("sort_order"),
	}
	var err error
	if filters.StartDate, err = f.TimePtr("start_date"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if filters.EndDate, err = f.TimePtr("end_date"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if filters.Page, err = f.Int("page"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if filters.PageSize, err = f.Int("page_size"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	txs, total, err := h.uc.ListTransactions(ctx, filters)
	if err != nil {
		return nil, h.fail("failed to list transactions", err)
	}

	list := make([]any, len(txs))
	for i := range txs {
		list[i] = mapTransaction(&txs[i])
	}
	return grpcutil.NewStruct(map[string]any{
		"transactions": list,
		"total":        total,
		"page":         filters.Page,
		"page_size":    filters.PageSize,
	})
}

func (h *TransactionHandler) UpdateTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	input := &dto.UpdateTransactionInput{
		ID:          f.String("id"),
		Type:        f.String("type"),
		Description: f.String("description"),
	}
	var err error
	if input.Value, err = f.Decimal("value"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.Discount, err = f.Decimal("discount"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.Date, err = f.Time("date"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if input.Items, err = parseItems(f); err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	tx, err := h.uc.UpdateTransaction(ctx, input)
	if err != nil {
		return nil, h.fail("failed to update transaction", err)
	}
	return transactionResponse(tx)
}

func (h *TransactionHandler) DeleteTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := h.uc.DeleteTransaction(ctx, grpcutil.FieldsOf(req).String("id")); err != nil {
		return nil, h.fail("failed to delete transaction", err)
	}
	return &structpb.Struct{}, nil
}

func (h *TransactionHandler) GetCashFlow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := grpcutil.FieldsOf(req)
	filters := &dto.CashFlowFilters{
		SearchQuery: f.String("search"),
		Type:        f.String("type"),
	}
	var err error
	if filters.StartDate, err = f.TimePtr("start_date"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}
	if filters.EndDate, err = f.TimePtr("end_date"); err != nil {
		return nil, grpcutil.ToStatus(err)
	}

	m, err := h.uc.CashFlow(ctx, filters)
	if err != nil {
		return nil, h.fail("failed to compute cash flow", err)
	}
	return grpcutil.NewStruct(map[string]any{"cash_flow": mapCashFlow(m)})
}

func (h *TransactionHandler) fail(msg string, err error) error {
	if grpcutil.Code(err) == codes.Internal {
		h.logger.Error(msg, zap.Error(err))
	}
	return grpcutil.ToStatus(err)
}

func parseItems(f grpcutil.Fields) ([]dto.ItemInput, error) {
	values, err := f.List("items")
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemInput, 0, len(values))
	for i, v := range values {
		s := v.GetStructValue()
		if s == nil {
			return nil, &model.ValidationError{Field: fmt.Sprintf("items[%d]", i), Rule: "object", Message: "must be an object"}
		}
		itemFields := grpcutil.FieldsOf(s)
		item := dto.ItemInput{
			ProductID: itemFields.String("product_id"),
			Name:      itemFields.String("name"),
		}
		if item.Quantity, err = itemFields.Int("quantity"); err != nil {
			return nil, err
		}
		if itemFields.Has("unit_price") {
			price, err := itemFields.Decimal("unit_price")
			if err != nil {
				return nil, err
			}
			item.UnitPrice = &price
		}
		items = append(items, item)
	}
	return items, nil
}

func transactionResponse(tx *model.Transaction) (*structpb.Struct, error) {
	return grpcutil.NewStruct(map[string]any{"transaction": mapTransaction(tx)})
}

func mapTransaction(tx *model.Transaction) map[string]any {
	items := make([]any, len(tx.Items))
	for i, item := range tx.Items {
		items[i] = map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice.String(),
			"total":      item.Total().String(),
		}
	}
	return map[string]any{
		"id":          tx.ID,
		"type":        string(tx.Type),
		"description": tx.Description,
		"value":       tx.Value.String(),
		"discount":    tx.Discount.String(),
		"subtotal":    tx.Subtotal().String(),
		"date":        grpcutil.FormatTime(tx.Date),
		"items":       items,
	}
}

func mapCashFlow(m *cashflow.Metrics) map[string]any {
	return map[string]any{
		"sales":              m.Sales.String(),
		"purchases":          m.Purchases.String(),
		"aportes":            m.Aportes.String(),
		"services":           m.Services.String(),
		"payments":           m.Payments.String(),
		"total_revenue":      m.TotalRevenue.String(),
		"total_expenses":     m.TotalExpenses.String(),
		"balance":            m.Balance.String(),
		"monthly_revenue":    m.MonthlyRevenue.String(),
		"monthly_expenses":   m.MonthlyExpenses.String(),
		"operational_result": m.OperationalResult.String(),
		"profit_margin":      m.ProfitMargin.StringFixed(2),
		"transaction_count":  m.TransactionCount,
	}
}
