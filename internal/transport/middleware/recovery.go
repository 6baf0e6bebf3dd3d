package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/heartmarshall/impact-hub-backend/pkg/ctxutil"
)

// Recovery turns a handler panic into a 500 JSON error and logs the panic
// with its stack. http.ErrAbortHandler is re-raised untouched.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				id := ctxutil.RequestIDFromCtx(r.Context())
				if id == "" {
					// RequestID runs inside Recovery; its echo header is all
					// that is visible out here.
					id = w.Header().Get(RequestIDHeader)
				}
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("request_id", id),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				// A handler that already started its response cannot be
				// rewritten; the client sees a truncated body.
				if sw.wroteHeader {
					return
				}
				WriteJSON(w, http.StatusInternalServerError, ErrorBody{
					Error:     "internal server error",
					RequestID: id,
				})
			}()
			next.ServeHTTP(sw, r)
		})
	}
}
