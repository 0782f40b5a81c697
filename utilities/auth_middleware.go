package utilities

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"admin-experimentai/internal/config"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID      = "user_id"
	ContextEmail       = "email"
	ContextAccessToken = "access_token"
)

// AuthMiddleware ensures each request carries a valid provider token. When
// basic auth is enabled, operator credentials are accepted instead.
func AuthMiddleware(secret []byte, basicAuth *BasicAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header", "code": "unauthorized"})
			c.Abort()
			return
		}

		if basicAuth != nil && strings.HasPrefix(authHeader, "Basic ") {
			user, pass, ok := c.Request.BasicAuth()
			if !ok || !basicAuth.Check(user, pass) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials", "code": "unauthorized"})
				c.Abort()
				return
			}
			c.Set(ContextUserID, user)
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := ValidateToken(tokenStr, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "code": "unauthorized"})
			c.Abort()
			return
		}

		// Store claims in context for later use
		c.Set(ContextUserID, claims.UserID())
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextAccessToken, tokenStr)

		c.Next()
	}
}

// BasicAuthenticator checks operator passwords against bcrypt hashes.
type BasicAuthenticator struct {
	hashes map[string][]byte
}

func NewBasicAuthenticator(users []config.BasicAuthUser) *BasicAuthenticator {
	hashes := make(map[string][]byte, len(users))
	for _, u := range users {
		hashes[u.Name] = []byte(strings.TrimSpace(u.PasswordHash))
	}
	return &BasicAuthenticator{hashes: hashes}
}

func (b *BasicAuthenticator) Check(user, password string) bool {
	hash, ok := b.hashes[user]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// CurrentUserID returns the authenticated user id, if any.
func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
