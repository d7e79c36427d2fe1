package middlewares

import (
	"net/http"
	"strconv"

	"blogd/internal/auth"
	"blogd/internal/cache"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is where the session token lives. The auth handler
// sets it, this gate reads it.
const SessionCookieName = "session"

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifySessionToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt    TokenVerifier
	tokens *cache.Cache
}

// NewAuthMiddleware wires the verifier with a short-lived cache so a
// busy session does not re-verify the same token on every request. A
// nil cache disables memoization.
func NewAuthMiddleware(jwt TokenVerifier, tokens *cache.Cache) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, tokens: tokens}
}

// RequireAuth resolves an identity from the session cookie and aborts
// with a bare 401 when none resolves. Gate failures carry no body.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookieName)
		if err != nil || raw == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := m.verify(raw)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Stash useful bits of identity on the context
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxEmailKey, claims.Email)
		c.Set(ctxRoleKey, claims.Role)

		c.Next()
	}
}

func (m *AuthMiddleware) verify(raw string) (*auth.Claims, error) {
	if m.tokens != nil {
		if v, ok := m.tokens.Get(raw); ok {
			if claims, ok := v.(*auth.Claims); ok {
				return claims, nil
			}
		}
	}

	claims, err := m.jwt.VerifySessionToken(raw)
	if err != nil {
		return nil, err
	}

	if m.tokens != nil {
		m.tokens.Set(raw, claims)
	}

	return claims, nil
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// UserKeyFromContext derives a rate-limiter key from the identity.
func UserKeyFromContext(c *gin.Context) string {
	id, ok := UserIDFromContext(c)
	if !ok {
		return ""
	}
	return "user:" + strconv.FormatInt(id, 10)
}
