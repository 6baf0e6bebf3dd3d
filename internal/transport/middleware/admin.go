package middleware

import (
	"net/http"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
)

// RequireModerator rejects anonymous callers with 401 and callers without
// the ICP_SUPPORT or ADMIN role with 403. It must run after Auth.
func RequireModerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := domain.PrincipalFromCtx(r.Context())
		switch {
		case p.IsAnonymous():
			WriteError(w, r, http.StatusUnauthorized, "unauthorized")
		case !p.IsModerator():
			WriteError(w, r, http.StatusForbidden, "forbidden")
		default:
			next.ServeHTTP(w, r)
		}
	})
}
