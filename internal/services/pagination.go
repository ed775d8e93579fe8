package services

import "strconv"

// Page is one page of results plus the paging metadata the listing endpoints
// return.
type Page[T any] struct {
	Docs       []T   `json:"docs"`
	TotalDocs  int64 `json:"total_docs"`
	Limit      int64 `json:"limit"`
	Page       int64 `json:"page"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev_page"`
	HasNext    bool  `json:"has_next_page"`
}

func newPage[T any](docs []T, total, page, limit int64) *Page[T] {
	if docs == nil {
		docs = []T{}
	}
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return &Page[T]{
		Docs:       docs,
		TotalDocs:  total,
		Limit:      limit,
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// NormalizePage parses a page path segment. Missing, non-numeric or
// out-of-range values default to page 1.
func NormalizePage(raw string) int64 {
	page, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
