package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	database "github.com/sebuszqo/FinanceTracker/db"
)

type Repository interface {
	createUser(ctx context.Context, user *User) error
	getUserByEmail(ctx context.Context, email string) (*User, error)
	getUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	listUsers(ctx context.Context, limit, offset int) ([]User, error)
	updateUser(ctx context.Context, user *User) error
	deleteUser(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db      database.Querier
	timeout time.Duration
}

func NewUserRepository(db database.Querier, timeout time.Duration) Repository {
	return &userRepository{
		db:      db,
		timeout: timeout,
	}
}

const userColumns = `id, name, email, password, active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, user *User) error {
	return row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Active, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) createUser(ctx context.Context, user *User) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO auth_users (id, name, email, password, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.Active).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		return database.MapError("create user", err)
	}
	return nil
}

func (r *userRepository) getUserByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM auth_users WHERE email = $1`

	var user User
	if err := scanUser(r.db.QueryRowContext(ctx, query, email), &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, database.MapError("get user by email", err)
	}
	return &user, nil
}

func (r *userRepository) getUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM auth_users WHERE id = $1`

	var user User
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, database.MapError("get user by id", err)
	}
	return &user, nil
}

func (r *userRepository) listUsers(ctx context.Context, limit, offset int) ([]User, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM auth_users ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, database.MapError("list users", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var user User
		if err := scanUser(rows, &user); err != nil {
			return nil, database.MapError("scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError("list users", err)
	}
	return users, nil
}

func (r *userRepository) updateUser(ctx context.Context, user *User) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE auth_users
		SET name = $2, email = $3, password = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash).Scan(&user.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrUserNotFound
		case database.IsUniqueViolation(err):
			return ErrEmailAlreadyExists
		}
		return database.MapError("update user", err)
	}
	return nil
}

// deleteUser removes the account row. Categories and transactions go with it
// through ON DELETE CASCADE.
func (r *userRepository) deleteUser(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM auth_users WHERE id = $1`, id)
	if err != nil {
		return database.MapError("delete user", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return database.MapError("delete user", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
