package infrastructure

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// listQuery describes an owner-scoped listing over one table.
type listQuery struct {
	selectFrom   string
	filterColumn string
	sortColumns  map[string]string
}

// build returns the SQL text and its arguments. Column names in ORDER BY come
// only from the sort allow-list; every user value travels as a parameter.
func (q listQuery) build(userID uuid.UUID, params domain.ListParams) (string, []any) {
	var sb strings.Builder
	args := []any{userID}

	sb.WriteString(q.selectFrom)
	sb.WriteString(" WHERE auth_user_id = $1")

	if filter := strings.TrimSpace(params.Filter); filter != "" && q.filterColumn != "" {
		args = append(args, escapeLike(filter))
		fmt.Fprintf(&sb, ` AND %s ILIKE '%%' || $%d || '%%' ESCAPE '\'`, q.filterColumn, len(args))
	}

	column := domain.SortColumn(params.SortBy, q.sortColumns)
	direction := domain.SortDirection(params.Order)
	fmt.Fprintf(&sb, " ORDER BY %s %s, id %s", column, direction, direction)

	args = append(args, params.Limit(), params.Offset())
	fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return sb.String(), args
}
