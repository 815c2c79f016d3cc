package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trophydesk/trophydesk/internal/shared"
)

func TestRequireActor(t *testing.T) {
	svc, _ := newAuthFixture(t)
	mw := NewMiddleware(svc)

	var seen shared.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	guarded := mw.RequireActor(next)

	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotations", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code, "no token")

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	guarded.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "unknown token")

	token, _, err := svc.Login(req.Context(), "somchai", "correct horse battery")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/quotations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	guarded.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(1), seen.ID)
	require.Equal(t, "สมชาย", seen.Name)
}
