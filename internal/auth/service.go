package auth

import (
	"context"
	"fmt"

	"github.com/sebuszqo/FinanceTracker/internal/identity"
	"github.com/sebuszqo/FinanceTracker/internal/logger"
	"github.com/sebuszqo/FinanceTracker/internal/user"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

type Service interface {
	Signin(ctx context.Context, email, password string) (string, error)
}

type service struct {
	users  Authenticator
	tokens TokenManager
}

func NewAuthService(users Authenticator, tokens TokenManager) Service {
	return &service{
		users:  users,
		tokens: tokens,
	}
}

// Signin checks the credentials and returns a signed bearer token.
func (s *service) Signin(ctx context.Context, email, password string) (string, error) {
	existingUser, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(identity.Identity{UserID: existingUser.ID, Email: existingUser.Email})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("user_id", existingUser.ID.String()).Msg("User signed in")
	return token, nil
}
