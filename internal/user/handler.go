package user

import (
	"net/http"

	"github.com/sebuszqo/FinanceTracker/internal/httputil"
)

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	user, err := h.userService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, user)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), httputil.QueryInt(r, "page"), httputil.QueryInt(r, "pageSize"))
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, users)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.PathUUID(r, "id")
	if !ok {
		httputil.RespondErr(w, r, ErrUserNotFound)
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.PathUUID(r, "id")
	if !ok {
		httputil.RespondErr(w, r, ErrUserNotFound)
		return
	}

	var req updateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	user, err := h.userService.Update(r.Context(), id, UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.PathUUID(r, "id")
	if !ok {
		httputil.RespondErr(w, r, ErrUserNotFound)
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.MessageResponse{Message: "User deleted successfully"})
}
