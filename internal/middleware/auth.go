// Package middleware содержит HTTP middleware сервиса учёта займов.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mmeshcher/loanbook/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// DefaultTokenTTL используется, если время жизни токена не задано.
const DefaultTokenTTL = 30 * 24 * time.Hour

// ErrInvalidToken возвращается для просроченного, неподписанного или повреждённого токена.
var ErrInvalidToken = errors.New("invalid token")

// Identity описывает аутентифицированного пользователя запроса.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

type claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// AuthMiddleware выдаёт и проверяет bearer-токены JWT.
type AuthMiddleware struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware. При пустом секрете генерируется
// случайный ключ, и выданные токены перестают действовать после перезапуска.
func NewAuthMiddleware(secret string, ttl time.Duration) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("generate jwt secret: %v", err))
		}
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &AuthMiddleware{
		secretKey: key,
		ttl:       ttl,
		now:       time.Now,
	}
}

// IssueToken подписывает токен для пользователя с указанной ролью.
func (a *AuthMiddleware) IssueToken(userID uuid.UUID, role model.Role) (string, error) {
	now := a.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		Role: role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(a.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ParseToken проверяет подпись и срок действия токена.
func (a *AuthMiddleware) ParseToken(raw string) (Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return a.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return Identity{UserID: id, Role: c.Role}, nil
}

// Middleware проверяет заголовок Authorization и добавляет пользователя в контекст запроса.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "not authorized, no token")
			return
		}

		ident, err := a.ParseToken(raw)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "not authorized, token failed")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}

// RequireRole пропускает только пользователей с одной из перечисленных ролей.
// Должен стоять после Middleware.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := GetIdentityFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "not authorized")
				return
			}

			for _, role := range roles {
				if ident.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSONError(w, http.StatusForbidden, fmt.Sprintf("role %s is not allowed to access this resource", ident.Role))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": msg,
	})
}

// WithIdentity кладёт пользователя в контекст.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, userKey, ident)
}

// GetIdentityFromContext извлекает пользователя из контекста запроса.
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(userKey).(Identity)
	return ident, ok
}
