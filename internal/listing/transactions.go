package listing

import (
	"slices"
	"strings"
	"time"

	"github.com/fekuna/omnipos-ledger-service/internal/model"
)

type TransactionSortField string

const (
	TransactionSortDate  TransactionSortField = "date"
	TransactionSortValue TransactionSortField = "value"
	TransactionSortType  TransactionSortField = "type"
)

type TransactionFilter struct {
	SearchTerm string
	Type       model.TransactionType // empty means all types
	// StartDate and EndDate are inclusive whole days in their own location.
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    TransactionSortField
	SortOrder SortOrder
}

// FilterTransactions returns the transactions matching f, stably sorted. Default order is date desc.
func FilterTransactions(txs []model.Transaction, f TransactionFilter) []model.Transaction {
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))

	var start, end time.Time
	if f.StartDate != nil {
		start = startOfDay(*f.StartDate)
	}
	if f.EndDate != nil {
		end = startOfDay(*f.EndDate).AddDate(0, 0, 1)
	}

	out := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if !matchesTransactionSearch(t, term) {
			continue
		}
		if !start.IsZero() && t.Date.Before(start) {
			continue
		}
		if !end.IsZero() && !t.Date.Before(end) {
			continue
		}
		out = append(out, t)
	}

	order := f.SortOrder
	if order == "" {
		order = Desc
	}
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		var c int
		switch f.SortBy {
		case TransactionSortValue:
			c = a.Value.Cmp(b.Value)
		case TransactionSortType:
			c = compareOrdered(string(a.Type), string(b.Type))
		default:
			c = a.Date.Compare(b.Date)
		}
		return applyOrder(c, order)
	})
	return out
}

func matchesTransactionSearch(t model.Transaction, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), term) || strings.Contains(strings.ToLower(t.ID), term) {
		return true
	}
	for _, item := range t.Items {
		if strings.Contains(strings.ToLower(item.Name), term) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
