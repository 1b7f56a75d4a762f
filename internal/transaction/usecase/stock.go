package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
	"github.com/fekuna/omnipos-ledger-service/internal/transaction/dto"
)

// stockPlan holds the products touched by one transaction. Each product is loaded once, so
// repeated lines for the same product accumulate on one copy.
type stockPlan struct {
	order    []string
	products map[string]*model.Product
}

func (p *stockPlan) len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

func (p *stockPlan) get(id string) (*model.Product, bool) {
	if p == nil {
		return nil, false
	}
	product, ok := p.products[id]
	return product, ok
}

// apply runs fn for every item in order and stops at the first failure.
func (p *stockPlan) apply(items []model.TransactionItem, fn func(*model.Product, model.TransactionItem) error) error {
	for i, item := range items {
		product, ok := p.get(item.ProductID)
		if !ok {
			return model.NewNotFoundError("product", item.ProductID)
		}
		if err := fn(product, item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func (uc *transactionUseCase) loadProducts(ctx context.Context, ids []string) (*stockPlan, error) {
	plan := &stockPlan{products: make(map[string]*model.Product, len(ids))}
	for _, id := range ids {
		if _, seen := plan.products[id]; seen {
			continue
		}
		p, err := uc.products.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load product: %w", err)
		}
		plan.products[id] = p
		plan.order = append(plan.order, id)
	}
	return plan, nil
}

// persistProducts writes the planned products one by one in first-seen order. There is no
// rollback: products written before a failure stay written.
func (uc *transactionUseCase) persistProducts(ctx context.Context, plan *stockPlan, operation string) error {
	for i, id := range plan.order {
		if err := uc.products.Update(ctx, plan.products[id]); err != nil {
			if i > 0 {
				uc.logger.Error("stock partially updated",
					zap.String("operation", operation),
					zap.Strings("updated_products", plan.order[:i]),
					zap.String("failed_product", id),
					zap.Error(err),
				)
			}
			return fmt.Errorf("persist product %s: %w", id, err)
		}
	}
	return nil
}

// buildItems turns the request lines into line items, taking the name and unit price
// from the loaded product when the request leaves them out.
func buildItems(txType model.TransactionType, inputs []dto.ItemInput, plan *stockPlan) []model.TransactionItem {
	if len(inputs) == 0 {
		return nil
	}
	items := make([]model.TransactionItem, 0, len(inputs))
	for _, in := range inputs {
		item := model.TransactionItem{ProductID: in.ProductID, Name: in.Name, Quantity: in.Quantity}
		p, loaded := plan.get(in.ProductID)
		if item.Name == "" && loaded {
			item.Name = p.Name
		}
		switch {
		case in.UnitPrice != nil:
			item.UnitPrice = *in.UnitPrice
		case loaded && txType == model.TransactionSale:
			item.UnitPrice = p.SalePrice
		case loaded && txType == model.TransactionPurchase:
			item.UnitPrice = p.CostPrice
		}
		items = append(items, item)
	}
	return items
}

func stockDirection(t model.TransactionType) (model.StockDirection, error) {
	switch t {
	case model.TransactionSale:
		return model.StockSale, nil
	case model.TransactionPurchase:
		return model.StockPurchase, nil
	case model.TransactionAporte, model.TransactionService, model.TransactionPayment:
		return "", model.NewInvalidOperationError("apply stock", fmt.Sprintf("%s transactions do not move stock", t))
	}
	return "", model.NewInvalidOperationError("apply stock", fmt.Sprintf("unknown transaction type %q", t))
}

// reversal is the stock change that undoes one line of a stored transaction.
func reversal(t model.TransactionType, quantity int) (int, error) {
	switch t {
	case model.TransactionPurchase:
		return -quantity, nil
	case model.TransactionSale:
		return quantity, nil
	case model.TransactionAporte, model.TransactionService, model.TransactionPayment:
		return 0, model.NewInvalidOperationError("reverse stock", fmt.Sprintf("%s transactions carry no stock to reverse", t))
	}
	return 0, model.NewInvalidOperationError("reverse stock", fmt.Sprintf("unknown transaction type %q", t))
}

// sameItems compares product, quantity and, when given, unit price line by line.
func sameItems(stored []model.TransactionItem, inputs []dto.ItemInput) bool {
	if len(stored) != len(inputs) {
		return false
	}
	for i, in := range inputs {
		s := stored[i]
		if s.ProductID != in.ProductID || s.Quantity != in.Quantity {
			return false
		}
		if in.UnitPrice != nil && !in.UnitPrice.Equal(s.UnitPrice) {
			return false
		}
	}
	return true
}

func productIDs(inputs []dto.ItemInput) []string {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		// blank ids are rejected by entity validation
		if in.ProductID != "" {
			ids = append(ids, in.ProductID)
		}
	}
	return ids
}

func itemProductIDs(items []model.TransactionItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func totalQuantity(items []model.TransactionItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
