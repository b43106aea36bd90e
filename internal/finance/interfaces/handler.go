package interfaces

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/sebuszqo/FinanceTracker/internal/finance/application"
	"github.com/sebuszqo/FinanceTracker/internal/httputil"
	"github.com/sebuszqo/FinanceTracker/internal/identity"
)

type (
	RespondJSONFunc  func(w http.ResponseWriter, status int, payload interface{})
	RespondErrorFunc func(w http.ResponseWriter, r *http.Request, err error)
)

var errUnauthorized = apperror.Unauthenticated("Unauthorized")

func currentUserID(r *http.Request) (uuid.UUID, error) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return uuid.Nil, errUnauthorized
	}
	return id.UserID, nil
}

// parseListQuery reads page, pageSize, sortBy, order and the filter value
// found under the first of filterKeys that is present.
func parseListQuery(r *http.Request, filterKeys ...string) application.ListQuery {
	query := r.URL.Query()
	q := application.ListQuery{
		Page:     httputil.QueryInt(r, "page"),
		PageSize: httputil.QueryInt(r, "pageSize"),
		SortBy:   query.Get("sortBy"),
		Order:    query.Get("order"),
	}
	for _, key := range filterKeys {
		if query.Has(key) {
			q.Filter = query.Get(key)
			break
		}
	}
	return q
}
