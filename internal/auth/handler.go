package auth

import (
	"net/http"

	"github.com/sebuszqo/FinanceTracker/internal/httputil"
)

type Handler struct {
	authService Service
}

func NewHandler(authService Service) *Handler {
	return &Handler{
		authService: authService,
	}
}

type signinRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	token, err := h.authService.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, TokenResponse{Token: token})
}
