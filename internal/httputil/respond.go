package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/FinanceTracker/internal/apperror"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondErr maps err to its status code and client message. Server side
// failures are logged with the request id and never shown to the client.
func RespondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.Status(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Str("request-id", RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Err(err).
			Msg("Request failed")
	}
	RespondError(w, status, apperror.Message(err))
}
