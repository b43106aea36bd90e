package domain

import (
	"strings"

	"github.com/sebuszqo/FinanceTracker/internal/pagination"
)

// ListParams describes one page of an owner-scoped listing.
type ListParams struct {
	pagination.Page
	Filter string
	SortBy string
	Order  string
}

const DefaultSortColumn = "created_at"

// CategorySortColumns maps accepted sortBy values to category columns.
var CategorySortColumns = map[string]string{
	"name":       "name",
	"type":       "type",
	"created_at": "created_at",
	"createdAt":  "created_at",
	"updated_at": "updated_at",
	"updatedAt":  "updated_at",
}

// TransactionSortColumns maps accepted sortBy values to transaction columns.
var TransactionSortColumns = map[string]string{
	"title":       "title",
	"description": "title",
	"amount":      "amount",
	"type":        "type",
	"category_id": "category_id",
	"categoryId":  "category_id",
	"created_at":  "created_at",
	"createdAt":   "created_at",
	"updated_at":  "updated_at",
	"updatedAt":   "updated_at",
}

// SortColumn resolves sortBy through allowed. Unknown keys fall back to created_at.
func SortColumn(sortBy string, allowed map[string]string) string {
	if column, ok := allowed[strings.TrimSpace(sortBy)]; ok {
		return column
	}
	return DefaultSortColumn
}

// SortDirection accepts asc or desc in any case and defaults to ASC.
func SortDirection(order string) string {
	if strings.EqualFold(strings.TrimSpace(order), "desc") {
		return "DESC"
	}
	return "ASC"
}
