package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/heartmarshall/impact-hub-backend/pkg/ctxutil"
)

// ErrorBody is the JSON envelope of every non-2xx response, whether it is
// written by a middleware or by a handler.
type ErrorBody struct {
	Error      string      `json:"error"`
	RequestID  string      `json:"requestId,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

// Violation names one rejected input field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// WriteError writes an ErrorBody carrying message. Server errors also carry
// the request ID so a client report can be matched to the log line.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	body := ErrorBody{Error: message}
	if status >= http.StatusInternalServerError {
		body.RequestID = ctxutil.RequestIDFromCtx(r.Context())
	}
	WriteJSON(w, status, body)
}
