package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	productCodeDigits   = 6
	DefaultSupplier     = "Unknown"
	minProductNameRunes = 2
)

// StockDirection selects how UpdateStock treats the amount.
type StockDirection string

const (
	// StockPurchase adds the amount; a negative amount decrements (used by reversals).
	StockPurchase StockDirection = "purchase"
	// StockSale removes the amount and refuses to go below zero.
	StockSale StockDirection = "sale"
)

type Product struct {
	BaseModel
	Name          string           `json:"name"`
	Code          int              `json:"code"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	LastSalePrice *decimal.Decimal `json:"last_sale_price,omitempty"`
	Supplier      string           `json:"supplier"`
	Description   string           `json:"description,omitempty"`
	Stock         int              `json:"stock"`
}

type ProductParams struct {
	ID            string
	Name          string
	Code          int // 0 generates a 6 digit code
	CostPrice     decimal.Decimal
	SalePrice     decimal.Decimal
	LastSalePrice *decimal.Decimal
	Supplier      string
	Description   string
	Stock         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct validates the params and builds a product ready to be saved.
func NewProduct(p ProductParams) (*Product, error) {
	now := time.Now()

	product := &Product{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		Name:          strings.TrimSpace(p.Name),
		Code:          p.Code,
		CostPrice:     p.CostPrice,
		SalePrice:     p.SalePrice,
		LastSalePrice: p.LastSalePrice,
		Supplier:      strings.TrimSpace(p.Supplier),
		Description:   p.Description,
		Stock:         p.Stock,
	}
	if product.Code == 0 {
		product.Code = generateCode(productCodeDigits)
	}
	if product.Supplier == "" {
		product.Supplier = DefaultSupplier
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}

	if err := product.validate(); err != nil {
		return nil, err
	}
	if product.SalePrice.LessThan(product.CostPrice) {
		return nil, newValidationError("sale_price", "gte_cost_price", "sale price cannot be less than cost price")
	}
	return product, nil
}

func (p *Product) validate() error {
	if err := validateProductName(p.Name); err != nil {
		return err
	}
	if err := validateProductCode(p.Code); err != nil {
		return err
	}
	if !p.CostPrice.IsPositive() {
		return newValidationError("cost_price", "gt_zero", "cost price must be greater than 0")
	}
	if !p.SalePrice.IsPositive() {
		return newValidationError("sale_price", "gt_zero", "sale price must be greater than 0")
	}
	if p.Stock < 0 {
		return newValidationError("stock", "gte_zero", "stock cannot be negative")
	}
	return nil
}

func validateProductName(name string) error {
	if len([]rune(name)) < minProductNameRunes {
		return newValidationError("name", "min_length", fmt.Sprintf("name must have at least %d characters", minProductNameRunes))
	}
	return nil
}

func validateProductCode(code int) error {
	if code <= 0 || digitCount(code) < 2 {
		return newValidationError("code", "min_digits", "code must be positive and have at least 2 digits")
	}
	return nil
}

// UpdateStock applies a stock movement. A failed movement leaves the product untouched.
func (p *Product) UpdateStock(amount int, direction StockDirection) error {
	switch direction {
	case StockPurchase:
		if p.Stock+amount < 0 {
			return &InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock, Requested: -amount}
		}
		p.Stock += amount
	case StockSale:
		if amount < 0 {
			return newValidationError("quantity", "gte_zero", "sale quantity cannot be negative")
		}
		if amount > p.Stock {
			return &InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock, Requested: amount}
		}
		p.Stock -= amount
	default:
		return NewInvalidOperationError("update stock", fmt.Sprintf("unknown stock direction %q", direction))
	}
	p.UpdatedAt = time.Now()
	return nil
}

// SetQuantity overwrites the stock level, as done by a manual inventory count.
func (p *Product) SetQuantity(quantity int) error {
	if quantity < 0 {
		return newValidationError("stock", "gte_zero", "quantity cannot be negative")
	}
	p.Stock = quantity
	p.UpdatedAt = time.Now()
	return nil
}

// ChangeSalePrice records the current price as LastSalePrice before replacing it.
// The sale >= cost rule only applies at creation.
func (p *Product) ChangeSalePrice(newPrice decimal.Decimal) error {
	if !newPrice.IsPositive() {
		return newValidationError("sale_price", "gt_zero", "sale price must be greater than 0")
	}
	last := p.SalePrice
	p.LastSalePrice = &last
	p.SalePrice = newPrice
	p.UpdatedAt = time.Now()
	return nil
}

type ProductEdit struct {
	Name        string
	Code        int
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	Supplier    string
	Description string
}

// Apply edits the descriptive fields and prices. Stock is not touched here.
func (p *Product) Apply(edit ProductEdit) error {
	name := strings.TrimSpace(edit.Name)
	if err := validateProductName(name); err != nil {
		return err
	}
	code := edit.Code
	if code == 0 {
		code = p.Code
	}
	if err := validateProductCode(code); err != nil {
		return err
	}
	if !edit.CostPrice.IsPositive() {
		return newValidationError("cost_price", "gt_zero", "cost price must be greater than 0")
	}
	if !edit.SalePrice.Equal(p.SalePrice) {
		if err := p.ChangeSalePrice(edit.SalePrice); err != nil {
			return err
		}
	}

	p.Name = name
	p.Code = code
	p.CostPrice = edit.CostPrice
	p.Supplier = strings.TrimSpace(edit.Supplier)
	if p.Supplier == "" {
		p.Supplier = DefaultSupplier
	}
	p.Description = edit.Description
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Product) Clone() *Product {
	c := *p
	if p.LastSalePrice != nil {
		last := *p.LastSalePrice
		c.LastSalePrice = &last
	}
	return &c
}
