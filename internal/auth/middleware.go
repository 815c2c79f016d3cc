package auth

import (
	"net/http"
	"strings"

	"github.com/trophydesk/trophydesk/internal/platform/httpx"
	"github.com/trophydesk/trophydesk/internal/shared"
)

// Middleware guards routes behind bearer-token authentication.
type Middleware struct {
	service *Service
}

// NewMiddleware builds the auth middleware.
func NewMiddleware(service *Service) Middleware {
	return Middleware{service: service}
}

// RequireActor rejects requests without a valid bearer token and puts
// the resolved actor into the request context.
func (m Middleware) RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		actor, err := m.service.ResolveToken(r.Context(), token)
		if err != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
