package dto

import "time"

type TransactionFilters struct {
	SearchQuery string // description, id, item names
	Type        string // a transaction type, or "" / "all"
	StartDate   *time.Time
	EndDate     *time.Time
	SortBy      string // date, value, type
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}

type CashFlowFilters struct {
	SearchQuery string
	Type        string
	StartDate   *time.Time
	EndDate     *time.Time
}

// IsZero reports whether the filters select every transaction.
func (f *CashFlowFilters) IsZero() bool {
	return f == nil ||
		(f.SearchQuery == "" && (f.Type == "" || f.Type == "all") && f.StartDate == nil && f.EndDate == nil)
}
