package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sebuszqo/FinanceTracker/internal/auth"
	"github.com/sebuszqo/FinanceTracker/internal/credentials"
	"github.com/sebuszqo/FinanceTracker/internal/finance/application"
	"github.com/sebuszqo/FinanceTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceTracker/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceTracker/internal/httputil"
	"github.com/sebuszqo/FinanceTracker/internal/testutil"
	"github.com/sebuszqo/FinanceTracker/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type e2eClient struct {
	t   *testing.T
	url string
}

func (c e2eClient) call(method, path, token string, body interface{}, out interface{}) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.url+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestEndToEnd(t *testing.T) {
	pg := testutil.NewPostgres(t)
	pg.Reset(t)

	const timeout = 5 * time.Second
	userService := user.NewUserService(user.NewUserRepository(pg.DB, timeout), credentials.NewBcryptHasher(bcrypt.MinCost), 0)
	tokens := auth.NewJWTManager("e2e-secret-0123456789", auth.DefaultTokenTTL)
	categoryService := application.NewCategoryService(infrastructure.NewCategoryRepository(pg.DB, timeout), 0)
	transactionService := application.NewTransactionService(infrastructure.NewTransactionRepository(pg.DB, timeout), 0)

	s := NewServer(
		auth.NewGate(tokens, userService),
		auth.NewHandler(auth.NewAuthService(userService, tokens)),
		user.NewHandler(userService),
		interfaces.NewCategoryHandler(categoryService, httputil.RespondJSON, httputil.RespondErr),
		interfaces.NewTransactionHandler(transactionService, httputil.RespondJSON, httputil.RespondErr),
		fakeHealth{status: "up"},
		nil,
	)
	s.RegisterRoutes()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	c := e2eClient{t: t, url: ts.URL}

	var alice struct {
		ID     string `json:"id"`
		Email  string `json:"email"`
		Active bool   `json:"active"`
	}
	status := c.call(http.MethodPost, "/auth_users/signup", "", map[string]string{"name": "A", "email": "a@x.com", "password": "p1"}, &alice)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "a@x.com", alice.Email)
	assert.True(t, alice.Active)

	var duplicate httputil.ErrorResponse
	status = c.call(http.MethodPost, "/auth_users/signup", "", map[string]string{"name": "A", "email": "A@x.com", "password": "p1"}, &duplicate)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already in use", duplicate.Error)

	var signin auth.TokenResponse
	status = c.call(http.MethodPost, "/auth_users/signin", "", map[string]string{"email": "a@x.com", "password": "p1"}, &signin)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, signin.Token)

	var category struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	status = c.call(http.MethodPost, "/category", signin.Token, map[string]string{"name": "Food", "type": "expense"}, &category)
	require.Equal(t, http.StatusCreated, status)

	var transaction struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		Amount      string `json:"amount"`
		Type        string `json:"type"`
		CategoryID  string `json:"category_id"`
	}
	status = c.call(http.MethodPost, "/transaction", signin.Token, map[string]interface{}{"amount": 12.50, "title": "lunch", "category_id": category.ID}, &transaction)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, category.ID, transaction.CategoryID)
	assert.Equal(t, "lunch", transaction.Description)
	assert.Equal(t, "expense", transaction.Type)
	assert.Equal(t, "12.5", transaction.Amount)

	var own []map[string]interface{}
	status = c.call(http.MethodGet, "/transaction", signin.Token, nil, &own)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, own, 1)

	status = c.call(http.MethodPost, "/auth_users/signup", "", map[string]string{"name": "B", "email": "b@x.com", "password": "p2"}, nil)
	require.Equal(t, http.StatusCreated, status)
	var other auth.TokenResponse
	require.Equal(t, http.StatusOK, c.call(http.MethodPost, "/auth_users/signin", "", map[string]string{"email": "b@x.com", "password": "p2"}, &other))

	var foreign []map[string]interface{}
	status = c.call(http.MethodGet, "/transaction", other.Token, nil, &foreign)
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, foreign)
	assert.Empty(t, foreign)

	status = c.call(http.MethodGet, "/transaction/"+transaction.ID, other.Token, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var wrong httputil.ErrorResponse
	status = c.call(http.MethodPost, "/auth_users/signin", "", map[string]string{"email": "a@x.com", "password": "nope"}, &wrong)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", wrong.Error)

	var unknown httputil.ErrorResponse
	status = c.call(http.MethodPost, "/auth_users/signin", "", map[string]string{"email": "ghost@x.com", "password": "nope"}, &unknown)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, wrong, unknown)

	status = c.call(http.MethodDelete, "/auth_users/"+alice.ID, other.Token, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status = c.call(http.MethodDelete, "/auth_users/"+alice.ID, signin.Token, nil, nil)
	require.Equal(t, http.StatusOK, status)

	status = c.call(http.MethodGet, "/category", signin.Token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var remaining int
	require.NoError(t, pg.DB.QueryRow(`SELECT COUNT(*) FROM "transaction"`).Scan(&remaining))
	assert.Zero(t, remaining)
}
