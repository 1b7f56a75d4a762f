package listing

import (
	"slices"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

type StockFilter string

const (
	StockAll StockFilter = "all"
	StockLow StockFilter = "low"
	StockOut StockFilter = "out"
)

type ProductSortField string

const (
	ProductSortName  ProductSortField = "name"
	ProductSortCode  ProductSortField = "code"
	ProductSortPrice ProductSortField = "price"
	ProductSortStock ProductSortField = "stock"
)

const DefaultLowStockThreshold = 10

type ProductFilter struct {
	SearchTerm        string
	Stock             StockFilter
	LowStockThreshold int // 0 means DefaultLowStockThreshold
	SortBy            ProductSortField
	SortOrder         SortOrder
}

// FilterProducts returns the products matching f, stably sorted. Default order is name asc.
func FilterProducts(products []model.Product, f ProductFilter) []model.Product {
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	threshold := f.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if !matchesProductSearch(p, term) {
			continue
		}
		switch f.Stock {
		case StockLow:
			if p.Stock <= 0 || p.Stock > threshold {
				continue
			}
		case StockOut:
			if p.Stock != 0 {
				continue
			}
		}
		out = append(out, p)
	}

	order := f.SortOrder
	if order == "" {
		order = Asc
	}
	slices.SortStableFunc(out, func(a, b model.Product) int {
		var c int
		switch f.SortBy {
		case ProductSortCode:
			c = compareOrdered(a.Code, b.Code)
		case ProductSortPrice:
			c = a.SalePrice.Cmp(b.SalePrice)
		case ProductSortStock:
			c = compareOrdered(a.Stock, b.Stock)
		default:
			c = compareOrdered(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		return applyOrder(c, order)
	})
	return out
}

func matchesProductSearch(p model.Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strconv.Itoa(p.Code), term) ||
		strings.Contains(strings.ToLower(p.Supplier), term)
}
