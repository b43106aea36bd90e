package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/sebuszqo/FinanceTracker/internal/credentials"
	"github.com/sebuszqo/FinanceTracker/internal/logger"
	"github.com/sebuszqo/FinanceTracker/internal/pagination"
)

const (
	maxEmailLength = 254
	maxNameLength  = 100
)

var (
	ErrUserNotFound       = apperror.NotFound("User not found")
	ErrEmailAlreadyExists = apperror.Conflict("Email already in use")
	ErrInvalidCredentials = apperror.Unauthenticated("Invalid email or password")
	ErrInvalidEmail       = apperror.NewValidationError("Email address is not valid")
	ErrNameRequired       = apperror.NewValidationError("Name is required")
	ErrNameTooLong        = apperror.NewValidationError(fmt.Sprintf("Name cannot be longer than %d characters", maxNameLength))
	ErrPasswordRequired   = apperror.NewValidationError("Password is required")
	ErrPasswordTooLong    = apperror.NewValidationError(fmt.Sprintf("Password cannot be longer than %d bytes", credentials.MaxPasswordBytes))
	ErrNothingToUpdate    = apperror.NewValidationError("At least one of name, email or password is required")
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateInput carries the optional profile changes. Nil fields stay untouched.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

type Service interface {
	Signup(ctx context.Context, name, email, password string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context, page, pageSize int) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

type service struct {
	repo        Repository
	hasher      credentials.Hasher
	maxPageSize int

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(repo Repository, hasher credentials.Hasher, maxPageSize int) Service {
	return &service{
		repo:        repo,
		hasher:      hasher,
		maxPageSize: maxPageSize,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmailAddress(email string) error {
	if len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) > credentials.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func (s *service) Signup(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	validationErrors := &apperror.ValidationErrors{}
	if err := validateName(name); err != nil {
		validationErrors.Add(err)
	}
	if err := validateEmailAddress(email); err != nil {
		validationErrors.Add(err)
	}
	if err := validatePassword(password); err != nil {
		validationErrors.Add(err)
	}
	if validationErrors.Len() > 0 {
		return nil, validationErrors
	}

	existingUser, err := s.repo.getUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrEmailAlreadyExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
	}
	if err := s.repo.createUser(ctx, user); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().Str("user_id", user.ID.String()).Msg("User signed up")
	return user, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.getUserByID(ctx, id)
}

func (s *service) List(ctx context.Context, page, pageSize int) ([]User, error) {
	p := pagination.New(page, pageSize, s.maxPageSize)
	return s.repo.listUsers(ctx, p.Limit(), p.Offset())
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*User, error) {
	if input.Name == nil && input.Email == nil && input.Password == nil {
		return nil, ErrNothingToUpdate
	}

	user, err := s.repo.getUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	validationErrors := &apperror.ValidationErrors{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateName(name); err != nil {
			validationErrors.Add(err)
		}
		user.Name = name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if err := validateEmailAddress(email); err != nil {
			validationErrors.Add(err)
		}
		user.Email = email
	}
	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			validationErrors.Add(err)
		}
	}
	if validationErrors.Len() > 0 {
		return nil, validationErrors
	}

	if input.Password != nil {
		passwordHash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	if err := s.repo.updateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.deleteUser(ctx, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info().Str("user_id", id.String()).Msg("User deleted")
	return nil
}

// Authenticate checks email and password. Unknown email, inactive account and
// wrong password are indistinguishable to the caller.
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.getUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyPasswordHash())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) || !user.Active {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// dummyPasswordHash keeps the unknown-email path as slow as a real comparison.
func (s *service) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			log.Error().Err(err).Msg("Could not prepare dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
