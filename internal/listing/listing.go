// Package listing holds the in-memory filter, sort and pagination helpers used to present
// product and transaction collections. Every function is pure and leaves its input untouched.
package listing

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

func ParseSortOrder(s string, fallback SortOrder) SortOrder {
	switch SortOrder(s) {
	case Asc:
		return Asc
	case Desc:
		return Desc
	}
	return fallback
}

type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Paginate slices one 1-based page out of items. Page numbers are clamped to [1, TotalPages]
// and a non-positive page size returns everything on a single page.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	total := len(items)
	if pageSize <= 0 {
		return Page[T]{Items: items, Page: 1, PageSize: total, TotalItems: total, TotalPages: 1}
	}

	totalPages := (total + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	if start > total {
		start = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func compareOrdered[T int | int64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func applyOrder(c int, order SortOrder) int {
	if order == Desc {
		return -c
	}
	return c
}
