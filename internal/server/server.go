package server

import (
	"context"
	"net/http"

	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/sebuszqo/FinanceTracker/internal/auth"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/sebuszqo/FinanceTracker/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceTracker/internal/httputil"
	"github.com/sebuszqo/FinanceTracker/internal/logger"
	"github.com/sebuszqo/FinanceTracker/internal/metrics"
	"github.com/sebuszqo/FinanceTracker/internal/user"
)

// HealthChecker reports the state of a backing service.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router             *http.ServeMux
	gate               *auth.Gate
	authHandler        *auth.Handler
	userHandler        *user.Handler
	categoryHandler    *interfaces.CategoryHandler
	transactionHandler *interfaces.TransactionHandler
	health             HealthChecker
	metrics            *metrics.Metrics
}

// NewServer wires the handlers into a router. A nil metrics disables /metrics
// and request instrumentation.
func NewServer(
	gate *auth.Gate,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	categoryHandler *interfaces.CategoryHandler,
	transactionHandler *interfaces.TransactionHandler,
	health HealthChecker,
	m *metrics.Metrics,
) *Server {
	return &Server{
		router:             http.NewServeMux(),
		gate:               gate,
		authHandler:        authHandler,
		userHandler:        userHandler,
		categoryHandler:    categoryHandler,
		transactionHandler: transactionHandler,
		health:             health,
		metrics:            m,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.RespondError(w, http.StatusNotFound, "Path not found")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.health.Health(r.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	httputil.RespondJSON(w, status, stats)
}

func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.gate.Authenticate(h)
}

// withID validates the {id} path value before h runs.
func (s *Server) withID(notFoundMsg string, h http.HandlerFunc) http.Handler {
	return s.gate.Authenticate(httputil.ValidatePathUUID("id", notFoundMsg, h))
}

// self restricts h to the user whose id is in the path.
func (s *Server) self(h http.HandlerFunc) http.Handler {
	return s.gate.Authenticate(s.gate.RequireSelf("id", httputil.ValidatePathUUID("id", apperror.Message(user.ErrUserNotFound), h)))
}

func (s *Server) RegisterRoutes() {
	categoryNotFound := apperror.Message(domain.ErrCategoryNotFound)
	transactionNotFound := apperror.Message(domain.ErrTransactionNotFound)

	// Public routes
	s.router.Handle("POST /auth_users/signup", http.HandlerFunc(s.userHandler.HandleSignup))
	s.router.Handle("POST /auth_users/signin", http.HandlerFunc(s.authHandler.HandleSignin))
	s.router.Handle("GET /health", http.HandlerFunc(s.handleHealth))
	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics.Handler())
	}

	// Users
	s.router.Handle("GET /auth_users", s.protected(s.userHandler.HandleList))
	s.router.Handle("GET /auth_users/{id}", s.self(s.userHandler.HandleGet))
	s.router.Handle("PUT /auth_users/{id}", s.self(s.userHandler.HandleUpdate))
	s.router.Handle("DELETE /auth_users/{id}", s.self(s.userHandler.HandleDelete))

	// Categories
	s.router.Handle("GET /category", s.protected(s.categoryHandler.GetCategories))
	s.router.Handle("POST /category", s.protected(s.categoryHandler.CreateCategory))
	s.router.Handle("GET /category/{id}", s.withID(categoryNotFound, s.categoryHandler.GetCategory))
	s.router.Handle("PUT /category/{id}", s.withID(categoryNotFound, s.categoryHandler.UpdateCategory))
	s.router.Handle("DELETE /category/{id}", s.withID(categoryNotFound, s.categoryHandler.DeleteCategory))

	// Transactions
	s.router.Handle("GET /transaction", s.protected(s.transactionHandler.GetUserTransactions))
	s.router.Handle("POST /transaction", s.protected(s.transactionHandler.CreateTransaction))
	s.router.Handle("POST /transaction/bulk", s.protected(s.transactionHandler.CreateTransactionsBulk))
	s.router.Handle("GET /transaction/summary", s.protected(s.transactionHandler.GetTransactionSummary))
	s.router.Handle("GET /transaction/{id}", s.withID(transactionNotFound, s.transactionHandler.GetTransaction))
	s.router.Handle("PUT /transaction/{id}", s.withID(transactionNotFound, s.transactionHandler.UpdateTransaction))
	s.router.Handle("DELETE /transaction/{id}", s.withID(transactionNotFound, s.transactionHandler.DeleteTransaction))

	s.router.Handle("/", http.HandlerFunc(notFoundHandler))
}

// Handler returns the router wrapped in request logging and, when enabled, metrics.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	if s.metrics != nil {
		h = s.metrics.Middleware(h)
	}
	return logger.Middleware(h)
}
