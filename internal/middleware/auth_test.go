package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/loanbook/internal/model"
)

func TestAuthMiddleware_WithValidToken(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Hour)
	userID := uuid.New()

	token, err := m.IssueToken(userID, model.RoleCollector)
	require.NoError(t, err)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		ident, ok := GetIdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity not in context")
		}
		if ident.UserID != userID {
			t.Fatalf("user id from context = %s, want %s", ident.UserID, userID)
		}
		if ident.Role != model.RoleCollector {
			t.Fatalf("role from context = %s, want collector", ident.Role)
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	m.Middleware(next).ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	m := NewAuthMiddleware("test-secret", time.Hour)
	other := NewAuthMiddleware("other-secret", time.Hour)

	foreign, err := other.IssueToken(uuid.New(), model.RoleAdmin)
	require.NoError(t, err)

	expiredIssuer := NewAuthMiddleware("test-secret", time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.IssueToken(uuid.New(), model.RoleAdmin)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": uuid.NewString()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage", header: "Bearer not-a-jwt"},
		{name: "foreign secret", header: "Bearer " + foreign},
		{name: "expired", header: "Bearer " + expired},
		{name: "alg none", header: "Bearer " + unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("next handler should not be called")
			})

			r := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			m.Middleware(next).ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"success":false,"message":"`+messageFor(tt.header)+`"}`, w.Body.String())
		})
	}
}

func messageFor(header string) string {
	if header == "" || header == "Basic abc" || header == "Bearer " {
		return "not authorized, no token"
	}
	return "not authorized, token failed"
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireRole(model.RoleAdmin)(ok)

	tests := []struct {
		name  string
		ident *Identity
		want  int
	}{
		{name: "admin", ident: &Identity{UserID: uuid.New(), Role: model.RoleAdmin}, want: http.StatusNoContent},
		{name: "collector", ident: &Identity{UserID: uuid.New(), Role: model.RoleCollector}, want: http.StatusForbidden},
		{name: "anonymous", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPut, "/api/customers/1", nil)
			if tt.ident != nil {
				r = r.WithContext(WithIdentity(r.Context(), *tt.ident))
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, r)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
