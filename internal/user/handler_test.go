package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth_users/signup", h.HandleSignup)
	mux.HandleFunc("GET /auth_users", h.HandleList)
	mux.Handle("GET /auth_users/{id}", httputil.ValidatePathUUID("id", "User not found", http.HandlerFunc(h.HandleGet)))
	mux.Handle("PUT /auth_users/{id}", httputil.ValidatePathUUID("id", "User not found", http.HandlerFunc(h.HandleUpdate)))
	mux.Handle("DELETE /auth_users/{id}", httputil.ValidatePathUUID("id", "User not found", http.HandlerFunc(h.HandleDelete)))
	return mux
}

func TestHandleSignup_Created(t *testing.T) {
	id := uuid.New()
	mockService := &MockService{
		SignupFunc: func(_ context.Context, name, email, password string) (*User, error) {
			return &User{ID: id, Name: name, Email: email, PasswordHash: "hash", Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/auth_users/signup", strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"secret1"}`))
	w := httptest.NewRecorder()
	newUserMux(NewHandler(mockService)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, id.String(), body["id"])
	assert.Equal(t, "Ana", body["name"])
	assert.Equal(t, true, body["active"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "PasswordHash")
}

func TestHandleSignup_EmailInUse(t *testing.T) {
	mockService := &MockService{
		SignupFunc: func(context.Context, string, string, string) (*User, error) {
			return nil, ErrEmailAlreadyExists
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/auth_users/signup", strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"secret1"}`))
	w := httptest.NewRecorder()
	newUserMux(NewHandler(mockService)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email already in use"}`, w.Body.String())
}

func TestHandleSignup_MissingFields(t *testing.T) {
	called := false
	mockService := &MockService{
		SignupFunc: func(context.Context, string, string, string) (*User, error) {
			called = true
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/auth_users/signup", strings.NewReader(`{"email":"ana@example.com"}`))
	w := httptest.NewRecorder()
	newUserMux(NewHandler(mockService)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
	assert.Contains(t, w.Body.String(), "name is required")
}

func TestHandleList_PassesPaging(t *testing.T) {
	var gotPage, gotSize int
	mockService := &MockService{
		ListFunc: func(_ context.Context, page, pageSize int) ([]User, error) {
			gotPage, gotSize = page, pageSize
			return []User{}, nil
		},
	}

	w := httptest.NewRecorder()
	newUserMux(NewHandler(mockService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth_users?page=2&pageSize=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 5, gotSize)
}

func TestHandleGet_MalformedID(t *testing.T) {
	w := httptest.NewRecorder()
	newUserMux(NewHandler(&MockService{})).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth_users/42", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())
}

func TestHandleUpdate_PartialBody(t *testing.T) {
	id := uuid.New()
	var got UpdateInput
	mockService := &MockService{
		UpdateFunc: func(_ context.Context, gotID uuid.UUID, input UpdateInput) (*User, error) {
			got = input
			return &User{ID: gotID, Name: *input.Name, Email: "ana@example.com", Active: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/auth_users/"+id.String(), strings.NewReader(`{"name":"Ana Maria"}`))
	w := httptest.NewRecorder()
	newUserMux(NewHandler(mockService)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Ana Maria", *got.Name)
	assert.Nil(t, got.Email)
	assert.Nil(t, got.Password)
}

func TestHandleDelete(t *testing.T) {
	id := uuid.New()
	mockService := &MockService{
		DeleteFunc: func(_ context.Context, gotID uuid.UUID) error {
			if gotID != id {
				return ErrUserNotFound
			}
			return nil
		},
	}

	w := httptest.NewRecorder()
	newUserMux(NewHandler(mockService)).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/auth_users/"+id.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User deleted successfully"}`, w.Body.String())
}
