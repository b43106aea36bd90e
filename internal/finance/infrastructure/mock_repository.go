package infrastructure

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

// MockStore keeps categories and transactions in memory with the same
// ownership rules as the Postgres repositories.
type MockStore struct {
	mu           sync.Mutex
	Categories   map[uuid.UUID]domain.Category
	Transactions map[uuid.UUID]domain.Transaction
	Err          error
}

func NewMockStore() *MockStore {
	return &MockStore{
		Categories:   make(map[uuid.UUID]domain.Category),
		Transactions: make(map[uuid.UUID]domain.Transaction),
	}
}

type MockCategoryRepository struct {
	Store *MockStore
}

type MockTransactionRepository struct {
	Store *MockStore
}

func page[T any](items []T, params domain.ListParams) []T {
	offset := params.Offset()
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if params.Limit() < end-offset {
		end = offset + params.Limit()
	}
	return items[offset:end]
}

func (m *MockCategoryRepository) List(_ context.Context, userID uuid.UUID, params domain.ListParams) ([]domain.Category, error) {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return nil, m.Store.Err
	}

	categories := make([]domain.Category, 0)
	for _, c := range m.Store.Categories {
		if c.UserID == userID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(params.Filter)) {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].CreatedAt.Equal(categories[j].CreatedAt) {
			return categories[i].ID.String() < categories[j].ID.String()
		}
		return categories[i].CreatedAt.Before(categories[j].CreatedAt)
	})
	return page(categories, params), nil
}

func (m *MockCategoryRepository) Create(_ context.Context, category *domain.Category) error {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return m.Store.Err
	}

	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Store.Categories[category.ID] = *category
	return nil
}

func (m *MockCategoryRepository) FindByID(_ context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return nil, m.Store.Err
	}

	c, ok := m.Store.Categories[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *MockCategoryRepository) Update(_ context.Context, category *domain.Category) error {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return m.Store.Err
	}

	existing, ok := m.Store.Categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return domain.ErrCategoryNotFound
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	m.Store.Categories[category.ID] = *category
	return nil
}

func (m *MockCategoryRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return m.Store.Err
	}

	c, ok := m.Store.Categories[id]
	if !ok || c.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Store.Categories, id)
	for txID, t := range m.Store.Transactions {
		if t.CategoryID == id {
			delete(m.Store.Transactions, txID)
		}
	}
	return nil
}

func (m *MockTransactionRepository) List(_ context.Context, userID uuid.UUID, params domain.ListParams) ([]domain.Transaction, error) {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return nil, m.Store.Err
	}

	transactions := make([]domain.Transaction, 0)
	for _, t := range m.Store.Transactions {
		if t.UserID == userID && strings.Contains(strings.ToLower(t.Description), strings.ToLower(params.Filter)) {
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.Before(transactions[j].CreatedAt)
	})
	return page(transactions, params), nil
}

func (m *MockTransactionRepository) ListInRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return nil, m.Store.Err
	}

	transactions := make([]domain.Transaction, 0)
	for _, t := range m.Store.Transactions {
		if t.UserID == userID && !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.Before(transactions[j].CreatedAt)
	})
	return transactions, nil
}

func (m *MockTransactionRepository) FindByID(_ context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return nil, m.Store.Err
	}

	t, ok := m.Store.Transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return &t, nil
}

func (m *MockTransactionRepository) ownedCategoryType(userID, categoryID uuid.UUID) (domain.CategoryType, bool) {
	c, ok := m.Store.Categories[categoryID]
	if !ok || c.UserID != userID {
		return "", false
	}
	return c.Type, true
}

func (m *MockTransactionRepository) Create(_ context.Context, t *domain.Transaction) error {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return m.Store.Err
	}

	categoryType, ok := m.ownedCategoryType(t.UserID, t.CategoryID)
	if !ok {
		return domain.ErrInvalidCategory
	}
	if t.Type == "" {
		t.Type = categoryType
	}
	t.ID = uuid.New()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = t.CreatedAt
	m.Store.Transactions[t.ID] = *t
	return nil
}

func (m *MockTransactionRepository) CreateBatch(_ context.Context, userID uuid.UUID, transactions []*domain.Transaction) error {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return m.Store.Err
	}

	validationErrors := &apperror.ValidationErrors{}
	for i, t := range transactions {
		categoryType, ok := m.ownedCategoryType(userID, t.CategoryID)
		if !ok {
			validationErrors.Add(apperror.NewIndexedValidationError(i+1, domain.ErrInvalidCategory.Error()))
			continue
		}
		t.UserID = userID
		if t.Type == "" {
			t.Type = categoryType
		}
	}
	if validationErrors.Len() > 0 {
		return validationErrors
	}

	now := time.Now()
	for _, t := range transactions {
		t.ID = uuid.New()
		t.CreatedAt = now
		t.UpdatedAt = now
		m.Store.Transactions[t.ID] = *t
	}
	return nil
}

func (m *MockTransactionRepository) Update(_ context.Context, t *domain.Transaction) error {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return m.Store.Err
	}

	categoryType, ok := m.ownedCategoryType(t.UserID, t.CategoryID)
	if !ok {
		return domain.ErrInvalidCategory
	}
	existing, ok := m.Store.Transactions[t.ID]
	if !ok || existing.UserID != t.UserID {
		return domain.ErrTransactionNotFound
	}
	if t.Type == "" {
		t.Type = categoryType
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	m.Store.Transactions[t.ID] = *t
	return nil
}

func (m *MockTransactionRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	m.Store.mu.Lock()
	defer m.Store.mu.Unlock()
	if m.Store.Err != nil {
		return m.Store.Err
	}

	t, ok := m.Store.Transactions[id]
	if !ok || t.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Store.Transactions, id)
	return nil
}
