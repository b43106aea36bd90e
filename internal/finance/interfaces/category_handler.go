package interfaces

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/finance/application"
	"github.com/sebuszqo/FinanceTracker/internal/finance/domain"
	"github.com/sebuszqo/FinanceTracker/internal/httputil"
)

type CategoryServiceInterface interface {
	GetUserCategories(ctx context.Context, userID uuid.UUID, q application.ListQuery) ([]domain.Category, error)
	GetCategory(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON RespondJSONFunc,
	respondError RespondErrorFunc,
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type categoryRequest struct {
	Name string              `json:"name" validate:"required,max=100"`
	Type domain.CategoryType `json:"type" validate:"required,oneof=income expense"`
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	categories, err := h.service.GetUserCategories(r.Context(), userID, parseListQuery(r, "name"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, ok := httputil.PathUUID(r, "id")
	if !ok {
		h.respondError(w, r, domain.ErrCategoryNotFound)
		return
	}

	category, err := h.service.GetCategory(r.Context(), userID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req categoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	category := &domain.Category{Name: req.Name, Type: req.Type, UserID: userID}
	if err := h.service.CreateCategory(r.Context(), category); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, ok := httputil.PathUUID(r, "id")
	if !ok {
		h.respondError(w, r, domain.ErrCategoryNotFound)
		return
	}

	var req categoryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	category := &domain.Category{ID: id, Name: req.Name, Type: req.Type, UserID: userID}
	if err := h.service.UpdateCategory(r.Context(), category); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	id, ok := httputil.PathUUID(r, "id")
	if !ok {
		h.respondError(w, r, domain.ErrCategoryNotFound)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), userID, id); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, httputil.MessageResponse{Message: "Category deleted successfully"})
}
