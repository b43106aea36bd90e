package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	database "github.com/sebuszqo/FinanceTracker/db"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

const categoryColumns = `id, name, type, auth_user_id, created_at, updated_at`

var categoryListQuery = listQuery{
	selectFrom:   `SELECT ` + categoryColumns + ` FROM category`,
	filterColumn: "name",
	sortColumns:  domain.CategorySortColumns,
}

type CategoryRepository struct {
	db      database.Store
	timeout time.Duration
}

func NewCategoryRepository(db database.Store, timeout time.Duration) *CategoryRepository {
	return &CategoryRepository{db: db, timeout: timeout}
}

func scanCategory(row interface{ Scan(...any) error }, category *domain.Category) error {
	return row.Scan(&category.ID, &category.Name, &category.Type, &category.UserID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *CategoryRepository) List(ctx context.Context, userID uuid.UUID, params domain.ListParams) ([]domain.Category, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query, args := categoryListQuery.build(userID, params)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.MapError("list categories", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var category domain.Category
		if err := scanCategory(rows, &category); err != nil {
			return nil, database.MapError("scan category", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError("list categories", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	query := `
		INSERT INTO category (id, name, type, auth_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, category.ID, category.Name, category.Type, category.UserID).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return database.MapError("create category", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + categoryColumns + ` FROM category WHERE id = $1 AND auth_user_id = $2`

	var category domain.Category
	if err := scanCategory(r.db.QueryRowContext(ctx, query, id, userID), &category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, database.MapError("find category", err)
	}
	return &category, nil
}

// Update rewrites name and type of a category the user owns. A row owned by
// someone else is reported exactly like a missing one.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE category
		SET name = $3, type = $4, updated_at = NOW()
		WHERE id = $1 AND auth_user_id = $2
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, category.ID, category.UserID, category.Name, category.Type).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrCategoryNotFound
		}
		return database.MapError("update category", err)
	}
	return nil
}

// Delete removes the category together with its transactions.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM category WHERE id = $1 AND auth_user_id = $2`, id, userID)
	if err != nil {
		return database.MapError("delete category", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return database.MapError("delete category", err)
	}
	if rowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
