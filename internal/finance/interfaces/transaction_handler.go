package interfaces

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
	"github.com/sebuszqo/FinanceTracker/internal/finance/application"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/sebuszqo/FinanceTracker/internal/httputil"
	"github.com/shopspring/decimal"
)

const (
	dateLayout          = "2006-01-02"
	maxBulkTransactions = 1000
)

var (
	errNoTransactions      = apperror.NewValidationError("Invalid request body - no transactions provided")
	errTooManyTransactions = apperror.NewValidationError("Too many transactions in one request, the limit is 1000")
	errInvalidStartDate    = apperror.NewValidationError("Invalid start date format")
	errInvalidEndDate      = apperror.NewValidationError("Invalid end date format")
	errInvalidDateRange    = apperror.NewValidationError("Start date must not be after end date")
)

type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, transaction *domain.Transaction) error
	CreateTransactionsBulk(ctx context.Context, transactions []*domain.Transaction, userID uuid.UUID) error
	GetUserTransactions(ctx context.Context, userID uuid.UUID, q application.ListQuery) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transaction *domain.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error
	GetTransactionSummary(ctx context.Context, userID uuid.UUID, startDate, endDate time.Time) (map[int]application.TransactionSummary, error)
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
	now          func() time.Time
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	respondJSON RespondJSONFunc,
	respondError RespondErrorFunc,
) *TransactionHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
		now:          time.Now,
	}
}

// transactionRequest accepts title as an alias of description.
type transactionRequest struct {
	Description string              `json:"description" validate:"required_without=Title,max=200"`
	Title       string              `json:"title" validate:"max=200"`
	Amount      *decimal.Decimal    `json:"amount" validate:"required"`
	Type        domain.CategoryType `json:"type" validate:"omitempty,oneof=income expense"`
	CategoryID  *uuid.UUID          `json:"category_id" validate:"required"`
}

func (req transactionRequest) toDomain(userID uuid.UUID) *domain.Transaction {
	transaction := &domain.Transaction{
		Description: req.Description,
		Type:        req.Type,
		UserID:      userID,
	}
	if transaction.Description == "" {
		transaction.Description = req.Title
	}
	if req.Amount != nil {
		transaction.Amount = *req.Amount
	}
	if req.CategoryID != nil {
		transaction.CategoryID = *req.CategoryID
	}
	return transaction
}

type bulkRequest struct {
	Transactions []transactionRequest `json:"transactions"`
}

type validationErrorsResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req transactionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	transaction := req.toDomain(userID)
	if err := h.service.CreateTransaction(r.Context(), transaction); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, transaction)
}

// CreateTransactionsBulk stores every transaction of the request or none of
// them. Problems are listed per position under "errors".
func (h *TransactionHandler) CreateTransactionsBulk(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req bulkRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if len(req.Transactions) == 0 {
		h.respondError(w, r, errNoTransactions)
		return
	}
	if len(req.Transactions) > maxBulkTransactions {
		h.respondError(w, r, errTooManyTransactions)
		return
	}

	entryErrors := &apperror.ValidationErrors{}
	transactions := make([]*domain.Transaction, len(req.Transactions))
	for i, entry := range req.Transactions {
		if err := httputil.Validate(&entry); err != nil {
			addEntryErrors(entryErrors, i+1, err)
			continue
		}
		transactions[i] = entry.toDomain(userID)
	}
	if entryErrors.Len() > 0 {
		h.respondValidationErrors(w, entryErrors)
		return
	}

	if err := h.service.CreateTransactionsBulk(r.Context(), transactions, userID); err != nil {
		var validationErrors *apperror.ValidationErrors
		if errors.As(err, &validationErrors) {
			h.respondValidationErrors(w, validationErrors)
			return
		}
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, transactions)
}

// addEntryErrors files the field problems of bulk entry index under its position.
func addEntryErrors(dst *apperror.ValidationErrors, index int, err error) {
	var fieldErrors *apperror.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fieldErr := range fieldErrors.Errors {
			dst.Add(apperror.NewIndexedValidationError(index, fieldErr.Error()))
		}
		return
	}
	dst.Add(apperror.NewIndexedValidationError(index, err.Error()))
}

func (h *TransactionHandler) respondValidationErrors(w http.ResponseWriter, validationErrors *apperror.ValidationErrors) {
	messages := make([]string, len(validationErrors.Errors))
	for i, vErr := range validationErrors.Errors {
		messages[i] = vErr.Error()
	}
	h.respondJSON(w, http.StatusBadRequest, validationErrorsResponse{
		Error:  "Validation errors occurred",
		Errors: messages,
	})
}

func (h *TransactionHandler) GetUserTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	transactions, err := h.service.GetUserTransactions(r.Context(), userID, parseListQuery(r, "description", "title"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, transactions)
}

func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, ok := httputil.PathUUID(r, "id")
	if !ok {
		h.respondError(w, r, domain.ErrTransactionNotFound)
		return
	}

	transaction, err := h.service.GetTransaction(r.Context(), userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, ok := httputil.PathUUID(r, "id")
	if !ok {
		h.respondError(w, r, domain.ErrTransactionNotFound)
		return
	}

	var req transactionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	transaction := req.toDomain(userID)
	transaction.ID = id
	if err := h.service.UpdateTransaction(r.Context(), transaction); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, ok := httputil.PathUUID(r, "id")
	if !ok {
		h.respondError(w, r, domain.ErrTransactionNotFound)
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), userID, id); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, httputil.MessageResponse{Message: "Transaction deleted successfully"})
}

// GetTransactionSummary reads start_date and end_date as YYYY-MM-DD. Both days
// are included. The range defaults to the current year up to today.
func (h *TransactionHandler) GetTransactionSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	now := h.now().UTC()
	startDate := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if s := r.URL.Query().Get("start_date"); s != "" {
		if startDate, err = time.Parse(dateLayout, s); err != nil {
			h.respondError(w, r, errInvalidStartDate)
			return
		}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		if endDate, err = time.Parse(dateLayout, s); err != nil {
			h.respondError(w, r, errInvalidEndDate)
			return
		}
	}
	if startDate.After(endDate) {
		h.respondError(w, r, errInvalidDateRange)
		return
	}

	summary, err := h.service.GetTransactionSummary(r.Context(), userID, startDate, endDate.AddDate(0, 0, 1))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}
