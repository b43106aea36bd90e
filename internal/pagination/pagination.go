package pagination

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Page is a normalized 1-based page request.
type Page struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// New applies the defaults to page and pageSize. Values below 1 fall back to
// the defaults. maxPageSize caps pageSize when positive. page is clamped so
// the offset always fits in an int; such a page lies past any result set.
func New(page, pageSize, maxPageSize int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page-1 > math.MaxInt/pageSize {
		page = math.MaxInt/pageSize + 1
	}
	return Page{Page: page, PageSize: pageSize}
}

func (p Page) Limit() int {
	return p.PageSize
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}
