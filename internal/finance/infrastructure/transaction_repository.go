package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	database "github.com/sebuszqo/FinanceTracker/db"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
)

const transactionColumns = `id, title, amount, type, category_id, auth_user_id, created_at, updated_at`

var transactionListQuery = listQuery{
	selectFrom:   `SELECT ` + transactionColumns + ` FROM "transaction"`,
	filterColumn: "title",
	sortColumns:  domain.TransactionSortColumns,
}

type TransactionRepository struct {
	db      database.Store
	timeout time.Duration
}

func NewTransactionRepository(db database.Store, timeout time.Duration) *TransactionRepository {
	return &TransactionRepository{db: db, timeout: timeout}
}

func scanTransaction(row interface{ Scan(...any) error }, t *domain.Transaction) error {
	return row.Scan(&t.ID, &t.Description, &t.Amount, &t.Type, &t.CategoryID, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, params domain.ListParams) ([]domain.Transaction, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query, args := transactionListQuery.build(userID, params)
	return r.query(ctx, "list transactions", query, args...)
}

func (r *TransactionRepository) ListInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + transactionColumns + ` FROM "transaction"
		WHERE auth_user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC, id ASC`
	return r.query(ctx, "list transactions in range", query, userID, from, to)
}

func (r *TransactionRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.MapError(op, err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var transaction domain.Transaction
		if err := scanTransaction(rows, &transaction); err != nil {
			return nil, database.MapError("scan transaction", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError(op, err)
	}
	return transactions, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + transactionColumns + ` FROM "transaction" WHERE id = $1 AND auth_user_id = $2`

	var transaction domain.Transaction
	if err := scanTransaction(r.db.QueryRowContext(ctx, query, id, userID), &transaction); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, database.MapError("find transaction", err)
	}
	return &transaction, nil
}

// lockCategory share-locks the category for the rest of tx so it cannot be
// deleted or reassigned before the transaction row is written. It returns the
// category type, or ErrInvalidCategory when userID does not own it.
func lockCategory(ctx context.Context, tx *sql.Tx, userID, categoryID uuid.UUID) (domain.CategoryType, error) {
	var categoryType domain.CategoryType
	err := tx.QueryRowContext(ctx,
		`SELECT type FROM category WHERE id = $1 AND auth_user_id = $2 FOR SHARE`,
		categoryID, userID,
	).Scan(&categoryType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrInvalidCategory
		}
		return "", database.MapError("lock category", err)
	}
	return categoryType, nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, title, amount, type, category_id, auth_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := tx.QueryRowContext(ctx, query, t.ID, t.Description, t.Amount, t.Type, t.CategoryID, t.UserID).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return database.MapError("create transaction", err)
	}
	return nil
}

// withTx runs fn inside a database transaction bounded by the store timeout.
func (r *TransactionRepository) withTx(ctx context.Context, op string, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return database.MapError(op, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = database.SafeRollback(tx)
			panic(p)
		} else if err != nil {
			_ = database.SafeRollback(tx)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return database.MapError(op, err)
	}
	return nil
}

// Create stores t after checking that t.UserID owns t.CategoryID. The check and
// the insert share one database transaction. An empty type is taken from the category.
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return r.withTx(ctx, "create transaction", func(ctx context.Context, tx *sql.Tx) error {
		categoryType, err := lockCategory(ctx, tx, t.UserID, t.CategoryID)
		if err != nil {
			return err
		}
		if t.Type == "" {
			t.Type = categoryType
		}
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		return insertTransaction(ctx, tx, t)
	})
}

// CreateBatch stores all transactions or none. Category problems are reported
// per position as one ValidationErrors value.
func (r *TransactionRepository) CreateBatch(ctx context.Context, userID uuid.UUID, transactions []*domain.Transaction) error {
	return r.withTx(ctx, "create transactions", func(ctx context.Context, tx *sql.Tx) error {
		categoryTypes := make(map[uuid.UUID]domain.CategoryType)
		validationErrors := &apperror.ValidationErrors{}

		for i, t := range transactions {
			categoryType, ok := categoryTypes[t.CategoryID]
			if !ok {
				var err error
				categoryType, err = lockCategory(ctx, tx, userID, t.CategoryID)
				if err != nil {
					if errors.Is(err, domain.ErrInvalidCategory) {
						validationErrors.Add(apperror.NewIndexedValidationError(i+1, err.Error()))
						continue
					}
					return err
				}
				categoryTypes[t.CategoryID] = categoryType
			}

			t.UserID = userID
			if t.Type == "" {
				t.Type = categoryType
			}
			if t.ID == uuid.Nil {
				t.ID = uuid.New()
			}
			if validationErrors.Len() > 0 {
				continue
			}
			if err := insertTransaction(ctx, tx, t); err != nil {
				return fmt.Errorf("transaction %d: %w", i+1, err)
			}
		}

		if validationErrors.Len() > 0 {
			return validationErrors
		}
		return nil
	})
}

// Update rewrites a transaction the user owns. The new category must belong to
// the same user and is checked in the same database transaction.
func (r *TransactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	return r.withTx(ctx, "update transaction", func(ctx context.Context, tx *sql.Tx) error {
		categoryType, err := lockCategory(ctx, tx, t.UserID, t.CategoryID)
		if err != nil {
			return err
		}
		if t.Type == "" {
			t.Type = categoryType
		}

		query := `
			UPDATE "transaction"
			SET title = $3, amount = $4, type = $5, category_id = $6, updated_at = NOW()
			WHERE id = $1 AND auth_user_id = $2
			RETURNING created_at, updated_at
		`
		err = tx.QueryRowContext(ctx, query, t.ID, t.UserID, t.Description, t.Amount, t.Type, t.CategoryID).
			Scan(&t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrTransactionNotFound
			}
			return database.MapError("update transaction", err)
		}
		return nil
	})
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM "transaction" WHERE id = $1 AND auth_user_id = $2`, id, userID)
	if err != nil {
		return database.MapError("delete transaction", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return database.MapError("delete transaction", err)
	}
	if rowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
