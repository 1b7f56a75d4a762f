package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionSale     TransactionType = "sale"
	TransactionPurchase TransactionType = "purchase"
	// TransactionAporte is a capital contribution from an owner or investor.
	TransactionAporte  TransactionType = "aporte"
	TransactionService TransactionType = "service"
	TransactionPayment TransactionType = "payment"
)

func TransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionSale,
		TransactionPurchase,
		TransactionAporte,
		TransactionService,
		TransactionPayment,
	}
}

func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", newValidationError("type", "oneof", fmt.Sprintf("invalid transaction type %q: must be one of sale, purchase, aporte, service, payment", s))
	}
	return t, nil
}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionPurchase, TransactionAporte, TransactionService, TransactionPayment:
		return true
	}
	return false
}

// AffectsStock reports whether the type moves product stock and therefore carries line items.
func (t TransactionType) AffectsStock() bool {
	switch t {
	case TransactionSale, TransactionPurchase:
		return true
	case TransactionAporte, TransactionService, TransactionPayment:
		return false
	}
	return false
}

// IsRevenue reports whether the value counts as income in cash-flow metrics.
func (t TransactionType) IsRevenue() bool {
	switch t {
	case TransactionSale, TransactionAporte, TransactionService:
		return true
	case TransactionPurchase, TransactionPayment:
		return false
	}
	return false
}

type TransactionItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (i TransactionItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Transaction struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Description string            `json:"description,omitempty"`
	Value       decimal.Decimal   `json:"value"`
	Date        time.Time         `json:"date"`
	Items       []TransactionItem `json:"items"`
	Discount    decimal.Decimal   `json:"discount"`
}

type TransactionParams struct {
	ID          string
	Type        TransactionType
	Description string
	Value       decimal.Decimal
	Date        time.Time // zero means now
	Items       []TransactionItem
	Discount    decimal.Decimal
}

// NewTransaction validates the params. Transactions have no mutators: an edit builds a
// replacement with the same ID.
func NewTransaction(p TransactionParams) (*Transaction, error) {
	t := &Transaction{
		ID:          p.ID,
		Type:        p.Type,
		Description: p.Description,
		Value:       p.Value,
		Date:        p.Date,
		Items:       append([]TransactionItem(nil), p.Items...),
		Discount:    p.Discount,
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transaction) validate() error {
	if !t.Type.Valid() {
		return newValidationError("type", "oneof", fmt.Sprintf("invalid transaction type %q: must be one of sale, purchase, aporte, service, payment", t.Type))
	}
	if !t.Value.IsPositive() {
		return newValidationError("value", "gt_zero", "value must be greater than 0")
	}
	if t.Discount.IsNegative() {
		return newValidationError("discount", "gte_zero", "discount cannot be negative")
	}
	if t.Type.AffectsStock() {
		if len(t.Items) == 0 {
			return newValidationError("items", "required", fmt.Sprintf("%s transaction items cannot be empty", t.Type))
		}
	} else if len(t.Items) > 0 {
		return newValidationError("items", "empty", fmt.Sprintf("%s transaction cannot carry items", t.Type))
	}
	for i, item := range t.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return newValidationError(fmt.Sprintf("items[%d].product_id", i), "required", "product id is required")
		}
		if item.Quantity <= 0 {
			return newValidationError(fmt.Sprintf("items[%d].quantity", i), "gt_zero", "quantity must be greater than 0")
		}
		if item.UnitPrice.IsNegative() {
			return newValidationError(fmt.Sprintf("items[%d].unit_price", i), "gte_zero", "unit price cannot be negative")
		}
	}
	return nil
}

func (t *Transaction) Subtotal() decimal.Decimal {
	return Subtotal(t.Items)
}

func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Items = append([]TransactionItem(nil), t.Items...)
	return &c
}

func Subtotal(items []TransactionItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total())
	}
	return total
}

// ComputeValue returns the transaction value: line items minus discount for stock
// transactions, the manually entered amount minus discount otherwise.
func ComputeValue(t TransactionType, items []TransactionItem, manual, discount decimal.Decimal) decimal.Decimal {
	if t.AffectsStock() {
		return Subtotal(items).Sub(discount)
	}
	return manual.Sub(discount)
}
