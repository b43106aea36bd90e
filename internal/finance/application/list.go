package application

import (
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/sebuszqo/FinanceTracker/internal/pagination"
)

// ListQuery is the raw list request as read from the query string.
type ListQuery struct {
	Page     int
	PageSize int
	Filter   string
	SortBy   string
	Order    string
}

func (q ListQuery) params(maxPageSize int) domain.ListParams {
	return domain.ListParams{
		Page:   pagination.New(q.Page, q.PageSize, maxPageSize),
		Filter: q.Filter,
		SortBy: q.SortBy,
		Order:  q.Order,
	}
}
