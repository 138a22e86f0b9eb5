package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/alapierre/go-efatura-connector/efatura"
	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
)

// BearerAuth porównuje token z nagłówka Authorization ze wspólnym sekretem w czasie stałym.
func BearerAuth(secret string) gin.HandlerFunc {
	expected := []byte(secret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "Invalid authorization header format. Expected 'Bearer <token>'")
			return
		}

		token := []byte(strings.TrimSpace(parts[1]))
		if len(expected) == 0 || subtle.ConstantTimeCompare(token, expected) != 1 {
			unauthorized(c, "Invalid token")
			return
		}

		c.Next()
	}
}

// unauthorized odrzuca żądanie; błąd trafia do c.Errors, więc RequestLogger go zaloguje.
func unauthorized(c *gin.Context, msg string) {
	_ = c.Error(errors.Wrap(efatura.ErrUnauthorized, msg))
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   msg,
	})
}
