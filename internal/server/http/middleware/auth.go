package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
)

const (
	// AdminIDContextKey is a gin context key for authenticated admin identifier.
	AdminIDContextKey = "adminID"
	// HeaderUserID and HeaderUserEmail carry the customer identity asserted by the client.
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	authCookieName  = "foodcourt_admin_token"
)

// TokenParser validates admin tokens.
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// AdminRequired ensures request carries a valid admin token.
func AdminRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "admin token required")
			return
		}
		if !authenticate(c, parser, token) {
			return
		}
		c.Next()
	}
}

// AdminOptional marks request as privileged when a token is present. A bad token is still rejected.
func AdminOptional(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" && !authenticate(c, parser, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, parser TokenParser, token string) bool {
	adminID, err := parser.ParseToken(token)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrInvalidToken) {
			abort(c, http.StatusUnauthorized, "invalid admin token")
			return false
		}
		abort(c, http.StatusInternalServerError, "internal server error")
		return false
	}
	c.Set(AdminIDContextKey, adminID)
	return true
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
