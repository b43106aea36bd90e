package user

import (
	"context"

	"github.com/google/uuid"
)

// MockService is a Service whose behaviour is set per test through its func fields.
type MockService struct {
	SignupFunc       func(ctx context.Context, name, email, password string) (*User, error)
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*User, error)
	ListFunc         func(ctx context.Context, page, pageSize int) ([]User, error)
	UpdateFunc       func(ctx context.Context, id uuid.UUID, input UpdateInput) (*User, error)
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error
	AuthenticateFunc func(ctx context.Context, email, password string) (*User, error)
}

func (m *MockService) Signup(ctx context.Context, name, email, password string) (*User, error) {
	return m.SignupFunc(ctx, name, email, password)
}

func (m *MockService) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockService) List(ctx context.Context, page, pageSize int) ([]User, error) {
	return m.ListFunc(ctx, page, pageSize)
}

func (m *MockService) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*User, error) {
	return m.UpdateFunc(ctx, id, input)
}

func (m *MockService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	return m.AuthenticateFunc(ctx, email, password)
}
