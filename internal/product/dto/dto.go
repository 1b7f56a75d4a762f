package dto

type ProductFilters struct {
	SearchQuery string // name, description, code, supplier
	StockFilter string // all, low, out
	SortBy      string // name, code, price, stock
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
