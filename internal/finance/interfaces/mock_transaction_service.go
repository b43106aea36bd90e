package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/sebuszqo/FinanceTracker/internal/finance/application"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

type MockTransactionService struct {
	transactions []domain.Transaction
	summary      map[int]application.TransactionSummary
	shouldFail   error

	lastQuery     application.ListQuery
	lastUserID    uuid.UUID
	lastStartDate time.Time
	lastEndDate   time.Time
	created       *domain.Transaction
	updated       *domain.Transaction
	bulk          []*domain.Transaction
}

// knownCategories are the category ids the mock treats as owned by the caller.
var knownCategories = map[uuid.UUID]domain.CategoryType{
	uuid.MustParse("11111111-1111-1111-1111-111111111111"): domain.Income,
	uuid.MustParse("22222222-2222-2222-2222-222222222222"): domain.Expense,
}

func (m *MockTransactionService) CreateTransaction(_ context.Context, transaction *domain.Transaction) error {
	if m.shouldFail != nil {
		return m.shouldFail
	}
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return err
	}
	categoryType, ok := knownCategories[transaction.CategoryID]
	if !ok {
		return domain.ErrInvalidCategory
	}
	if transaction.Type == "" {
		transaction.Type = categoryType
	}
	transaction.ID = uuid.New()
	m.created = transaction
	return nil
}

func (m *MockTransactionService) CreateTransactionsBulk(_ context.Context, transactions []*domain.Transaction, userID uuid.UUID) error {
	if m.shouldFail != nil {
		return m.shouldFail
	}
	validationErrors := &apperror.ValidationErrors{}

	for i, transaction := range transactions {
		transaction.UserID = userID
		if err := transaction.Validate(); err != nil {
			validationErrors.Add(apperror.NewIndexedValidationError(i+1, err.Error()))
			continue
		}
		if _, exists := knownCategories[transaction.CategoryID]; !exists {
			validationErrors.Add(apperror.NewIndexedValidationError(i+1, domain.ErrInvalidCategory.Error()))
		}
	}

	if validationErrors.Len() > 0 {
		return validationErrors
	}
	m.bulk = transactions
	return nil
}

func (m *MockTransactionService) GetUserTransactions(_ context.Context, userID uuid.UUID, q application.ListQuery) ([]domain.Transaction, error) {
	m.lastUserID = userID
	m.lastQuery = q
	if m.shouldFail != nil {
		return nil, m.shouldFail
	}
	return m.transactions, nil
}

func (m *MockTransactionService) GetTransaction(_ context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	if m.shouldFail != nil {
		return nil, m.shouldFail
	}
	for _, t := range m.transactions {
		if t.ID == id && t.UserID == userID {
			return &t, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionService) UpdateTransaction(_ context.Context, transaction *domain.Transaction) error {
	if m.shouldFail != nil {
		return m.shouldFail
	}
	m.updated = transaction
	return nil
}

func (m *MockTransactionService) DeleteTransaction(_ context.Context, userID, id uuid.UUID) error {
	if m.shouldFail != nil {
		return m.shouldFail
	}
	for _, t := range m.transactions {
		if t.ID == id && t.UserID == userID {
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

func (m *MockTransactionService) GetTransactionSummary(_ context.Context, userID uuid.UUID, startDate, endDate time.Time) (map[int]application.TransactionSummary, error) {
	m.lastUserID = userID
	m.lastStartDate = startDate
	m.lastEndDate = endDate
	if m.shouldFail != nil {
		return nil, m.shouldFail
	}
	return m.summary, nil
}
