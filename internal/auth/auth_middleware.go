package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/sebuszqo/FinanceTracker/internal/httputil"
	"github.com/sebuszqo/FinanceTracker/internal/identity"
	"github.com/sebuszqo/FinanceTracker/internal/user"
)

var (
	errMissingHeader = apperror.Unauthenticated("Authorization header is required")
	errInvalidFormat = apperror.Unauthenticated("Invalid token format")
	errInvalidToken  = apperror.Unauthenticated("Invalid token")
	errTokenExpired  = apperror.Unauthenticated("Token expired")
	errNotSelf       = apperror.Forbidden("You are not allowed to access this user")
)

// UserLookup resolves the account behind a verified token.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Gate authenticates bearer tokens and guards per-user routes.
type Gate struct {
	tokens TokenManager
	users  UserLookup
}

func NewGate(tokens TokenManager, users UserLookup) *Gate {
	return &Gate{
		tokens: tokens,
		users:  users,
	}
}

func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErr(w, r, errMissingHeader)
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)
		if !found || tokenString == "" {
			httputil.RespondErr(w, r, errInvalidFormat)
			return
		}

		id, err := g.tokens.Verify(tokenString)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				httputil.RespondErr(w, r, errTokenExpired)
				return
			}
			httputil.RespondErr(w, r, errInvalidToken)
			return
		}

		existingUser, err := g.users.GetByID(r.Context(), id.UserID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				httputil.RespondErr(w, r, errInvalidToken)
				return
			}
			httputil.RespondErr(w, r, err)
			return
		}
		if !existingUser.Active {
			httputil.RespondErr(w, r, errInvalidToken)
			return
		}

		ctx := identity.NewContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSelf rejects requests whose path value param is not the caller's own id.
// It must run behind Authenticate.
func (g *Gate) RequireSelf(param string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok {
			httputil.RespondErr(w, r, errMissingHeader)
			return
		}

		target, err := uuid.Parse(r.PathValue(param))
		if err != nil || target != id.UserID {
			httputil.RespondErr(w, r, errNotSelf)
			return
		}

		next.ServeHTTP(w, r)
	})
}
