package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
)

const maxCategoryNameLength = 100

type CategoryType string

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

func (t CategoryType) Valid() bool {
	return t == Income || t == Expense
}

var (
	ErrCategoryNotFound    = apperror.NotFound("Category not found")
	ErrInvalidCategory     = apperror.NewValidationError("Category does not exist")
	ErrInvalidCategoryType = apperror.NewValidationError("Type must be 'income' or 'expense'")
	ErrCategoryNameMissing = apperror.NewValidationError("Name is required")
	ErrCategoryNameLength  = apperror.NewValidationError("Name must be of length less than 100")
)

type Category struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	UserID    uuid.UUID    `json:"auth_user_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrCategoryNameMissing
	}
	if len(c.Name) > maxCategoryNameLength {
		return ErrCategoryNameLength
	}
	if !c.Type.Valid() {
		return ErrInvalidCategoryType
	}
	return nil
}

// CategoryRepository scopes every operation to the owning user.
type CategoryRepository interface {
	List(ctx context.Context, userID uuid.UUID, params ListParams) ([]Category, error)
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
