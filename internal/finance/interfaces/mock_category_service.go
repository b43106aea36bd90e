package interfaces

import (
	"context"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/finance/application"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

type MockCategoryService struct {
	categories []domain.Category
	shouldFail error

	lastQuery  application.ListQuery
	lastUserID uuid.UUID
	created    *domain.Category
	updated    *domain.Category
	deletedID  uuid.UUID
}

func (m *MockCategoryService) GetUserCategories(_ context.Context, userID uuid.UUID, q application.ListQuery) ([]domain.Category, error) {
	m.lastUserID = userID
	m.lastQuery = q
	if m.shouldFail != nil {
		return nil, m.shouldFail
	}
	return m.categories, nil
}

func (m *MockCategoryService) GetCategory(_ context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	m.lastUserID = userID
	if m.shouldFail != nil {
		return nil, m.shouldFail
	}
	for _, c := range m.categories {
		if c.ID == id && c.UserID == userID {
			return &c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryService) CreateCategory(_ context.Context, category *domain.Category) error {
	if m.shouldFail != nil {
		return m.shouldFail
	}
	category.ID = uuid.New()
	m.created = category
	return nil
}

func (m *MockCategoryService) UpdateCategory(_ context.Context, category *domain.Category) error {
	if m.shouldFail != nil {
		return m.shouldFail
	}
	m.updated = category
	return nil
}

func (m *MockCategoryService) DeleteCategory(_ context.Context, userID, id uuid.UUID) error {
	m.lastUserID = userID
	if m.shouldFail != nil {
		return m.shouldFail
	}
	m.deletedID = id
	return nil
}
