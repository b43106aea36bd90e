package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type pathParamKey string

// ValidatePathUUID parses the named path value as a UUID. A malformed id is
// answered with notFoundMsg so clients cannot tell it apart from a missing row.
func ValidatePathUUID(param, notFoundMsg string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parsedUUID, err := uuid.Parse(r.PathValue(param))
		if err != nil {
			RespondError(w, http.StatusNotFound, notFoundMsg)
			return
		}
		ctx := context.WithValue(r.Context(), pathParamKey(param), parsedUUID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PathUUID returns the id stored by ValidatePathUUID.
func PathUUID(r *http.Request, param string) (uuid.UUID, bool) {
	id, ok := r.Context().Value(pathParamKey(param)).(uuid.UUID)
	return id, ok
}

// QueryInt returns the integer query value for key, or 0 when it is absent or
// malformed. Out of range values saturate at the int limits.
func QueryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}
