package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemInput struct {
	ProductID string
	Name      string // empty takes the product name
	Quantity  int
	// UnitPrice nil takes the product sale price for sales and cost price for purchases.
	UnitPrice *decimal.Decimal
}

type CreateTransactionInput struct {
	Type        string
	Description string
	// Value is the manually entered amount for aporte, service and payment. Sales and
	// purchases derive their value from the items.
	Value    decimal.Decimal
	Discount decimal.Decimal
	Date     time.Time // zero means now
	Items    []ItemInput
}

type UpdateTransactionInput struct {
	ID          string
	Type        string
	Description string
	Value       decimal.Decimal
	Discount    decimal.Decimal
	Date        time.Time // zero keeps the stored date
	Items       []ItemInput // empty keeps the stored items
}
