package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/shopspring/decimal"
)

const maxDescriptionLength = 200

// maxAbsAmount is the first value that no longer fits numeric(14,2).
var maxAbsAmount = decimal.New(1, 12)

var (
	ErrTransactionNotFound    = apperror.NotFound("Transaction not found")
	ErrDescriptionMissing     = apperror.NewValidationError("Description is required")
	ErrDescriptionLength      = apperror.NewValidationError("Description must be of length less than 200")
	ErrAmountOutOfRange       = apperror.NewValidationError("Amount must be less than 1000000000000 in absolute value")
	ErrCategoryIDMissing      = apperror.NewValidationError("Category is required")
	ErrInvalidTransactionType = apperror.NewValidationError("Type must be 'income' or 'expense'")
)

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        CategoryType    `json:"type"`
	CategoryID  uuid.UUID       `json:"category_id"`
	UserID      uuid.UUID       `json:"auth_user_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t *Transaction) RoundToTwoDecimalPlaces() {
	t.Amount = t.Amount.Round(2)
}

// Validate checks the fields a caller supplies. An empty Type is allowed and
// is filled from the category when the transaction is stored.
func (t *Transaction) Validate() error {
	t.Description = strings.TrimSpace(t.Description)
	if t.Description == "" {
		return ErrDescriptionMissing
	}
	if len(t.Description) > maxDescriptionLength {
		return ErrDescriptionLength
	}
	if t.Amount.Abs().GreaterThanOrEqual(maxAbsAmount) {
		return ErrAmountOutOfRange
	}
	if t.Type != "" && !t.Type.Valid() {
		return ErrInvalidTransactionType
	}
	if t.CategoryID == uuid.Nil {
		return ErrCategoryIDMissing
	}
	return nil
}

// TransactionRepository scopes every operation to the owning user. Create and
// Update verify that the referenced category belongs to the same user.
type TransactionRepository interface {
	List(ctx context.Context, userID uuid.UUID, params ListParams) ([]Transaction, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	Create(ctx context.Context, transaction *Transaction) error
	CreateBatch(ctx context.Context, userID uuid.UUID, transactions []*Transaction) error
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Transaction, error)
}
