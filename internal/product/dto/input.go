package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	Name        string
	Code        int // 0 generates one
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	Supplier    string
	Description string
	Stock       int
}

type UpdateProductInput struct {
	ID          string
	Name        string
	Code        int // 0 keeps the current code
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	Supplier    string
	Description string
}
