package dto

type CategoryFilters struct {
	SearchQuery string
	Page        int
	PageSize    int
}
