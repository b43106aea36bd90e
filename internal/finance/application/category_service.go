package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/sebuszqo/FinanceTracker/internal/logger"
)

type CategoryService struct {
	repo        domain.CategoryRepository
	maxPageSize int
}

func NewCategoryService(repo domain.CategoryRepository, maxPageSize int) *CategoryService {
	return &CategoryService{repo: repo, maxPageSize: maxPageSize}
}

func (s *CategoryService) GetUserCategories(ctx context.Context, userID uuid.UUID, q ListQuery) ([]domain.Category, error) {
	return s.repo.List(ctx, userID, q.params(s.maxPageSize))
}

func (s *CategoryService) GetCategory(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	return s.repo.FindByID(ctx, userID, id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, category *domain.Category) error {
	category.ID = uuid.New()
	if err := category.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return err
	}
	logger.FromContext(ctx).Debug().Str("user_id", category.UserID.String()).Str("category_id", category.ID.String()).Msg("Category created")
	return nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if err := category.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, category)
}

// DeleteCategory removes the category and every transaction filed under it.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Debug().Str("user_id", userID.String()).Str("category_id", id.String()).Msg("Category deleted")
	return nil
}
