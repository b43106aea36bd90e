package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/sebuszqo/FinanceTracker/internal/logger"
	"github.com/shopspring/decimal"
)

type TransactionService struct {
	repo        domain.TransactionRepository
	maxPageSize int
}

func NewTransactionService(repo domain.TransactionRepository, maxPageSize int) *TransactionService {
	return &TransactionService{repo: repo, maxPageSize: maxPageSize}
}

type TransactionSummary struct {
	Year         int                     `json:"year"`
	IncomeTotal  decimal.Decimal         `json:"total_income"`
	ExpenseTotal decimal.Decimal         `json:"total_expense"`
	Months       map[string]MonthSummary `json:"months"`
}

type MonthSummary struct {
	IncomeTotal  decimal.Decimal `json:"total_income"`
	ExpenseTotal decimal.Decimal `json:"total_expense"`
	Weeks        []WeekSummary   `json:"weeks"`
}

type WeekSummary struct {
	Week         int             `json:"week"`
	IncomeTotal  decimal.Decimal `json:"total_income"`
	ExpenseTotal decimal.Decimal `json:"total_expense"`
}

func addAmount(income, expense *decimal.Decimal, t domain.Transaction) {
	switch t.Type {
	case domain.Income:
		*income = income.Add(t.Amount)
	case domain.Expense:
		*expense = expense.Add(t.Amount)
	}
}

// GetTransactionSummary totals income and expense per year, month and ISO
// week for transactions created in [startDate, endDate).
func (s *TransactionService) GetTransactionSummary(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) (map[int]TransactionSummary, error) {
	transactions, err := s.repo.ListInRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	summary := make(map[int]TransactionSummary)

	for _, transaction := range transactions {
		date := transaction.CreatedAt.UTC()
		year := date.Year()
		month := date.Month().String()
		_, week := date.ISOWeek()

		yearSummary, exists := summary[year]
		if !exists {
			yearSummary = TransactionSummary{
				Year:   year,
				Months: make(map[string]MonthSummary),
			}
		}

		monthSummary, exists := yearSummary.Months[month]
		if !exists {
			monthSummary = MonthSummary{Weeks: []WeekSummary{}}
		}

		addAmount(&yearSummary.IncomeTotal, &yearSummary.ExpenseTotal, transaction)
		addAmount(&monthSummary.IncomeTotal, &monthSummary.ExpenseTotal, transaction)

		found := false
		for i := range monthSummary.Weeks {
			if monthSummary.Weeks[i].Week == week {
				addAmount(&monthSummary.Weeks[i].IncomeTotal, &monthSummary.Weeks[i].ExpenseTotal, transaction)
				found = true
				break
			}
		}
		if !found {
			weekSummary := WeekSummary{Week: week}
			addAmount(&weekSummary.IncomeTotal, &weekSummary.ExpenseTotal, transaction)
			monthSummary.Weeks = append(monthSummary.Weeks, weekSummary)
		}

		yearSummary.Months[month] = monthSummary
		summary[year] = yearSummary
	}

	return summary, nil
}

func (s *TransactionService) CreateTransaction(ctx context.Context, transaction *domain.Transaction) error {
	transaction.ID = uuid.New()
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, transaction)
}

// CreateTransactionsBulk validates every entry before anything is written and
// reports problems by position. The batch is stored atomically.
func (s *TransactionService) CreateTransactionsBulk(ctx context.Context, transactions []*domain.Transaction, userID uuid.UUID) error {
	validationErrors := &apperror.ValidationErrors{}
	for i, transaction := range transactions {
		transaction.ID = uuid.New()
		transaction.UserID = userID
		transaction.RoundToTwoDecimalPlaces()
		if err := transaction.Validate(); err != nil {
			validationErrors.Add(apperror.NewIndexedValidationError(i+1, err.Error()))
		}
	}
	if validationErrors.Len() > 0 {
		return validationErrors
	}

	if err := s.repo.CreateBatch(ctx, userID, transactions); err != nil {
		return err
	}
	logger.FromContext(ctx).Debug().Str("user_id", userID.String()).Int("count", len(transactions)).Msg("Transactions created")
	return nil
}

func (s *TransactionService) GetUserTransactions(ctx context.Context, userID uuid.UUID, q ListQuery) ([]domain.Transaction, error) {
	return s.repo.List(ctx, userID, q.params(s.maxPageSize))
}

func (s *TransactionService) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	return s.repo.FindByID(ctx, userID, id)
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, transaction *domain.Transaction) error {
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, transaction)
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}
