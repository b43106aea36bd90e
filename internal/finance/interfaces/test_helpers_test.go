package interfaces

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceTracker/internal/httputil"
	"github.com/sebuszqo/FinanceTracker/internal/identity"
	"github.com/stretchr/testify/require"
)

var (
	respondJSON  = httputil.RespondJSON
	respondError = httputil.RespondErr
)

func newRequest(t *testing.T, method, target string, body interface{}, userID uuid.UUID) *http.Request {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req = req.WithContext(identity.NewContext(req.Context(), identity.Identity{UserID: userID, Email: "user@example.com"}))
	}
	return req
}

// serveWithID runs handler behind the path id middleware the router uses.
func serveWithID(handler http.HandlerFunc, req *http.Request, id, notFoundMsg string) *httptest.ResponseRecorder {
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	httputil.ValidatePathUUID("id", notFoundMsg, handler).ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}
