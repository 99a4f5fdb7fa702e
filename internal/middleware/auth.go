package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bandofmen/internal/services"
)

// SessionAuth — Bearer-токен резолвится в живую сессию; пользователь и токен
// кладутся в контекст. Просроченная сессия удаляется при этом же обращении.
func SessionAuth(sessions services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		user, err := sessions.Resolve(token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSessionExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			case errors.Is(err, services.ErrUnauthenticated):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			case errors.Is(err, services.ErrStorageUnavailable):
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "an internal error occurred"})
			}
			return
		}

		c.Set("user", user)
		c.Set("session_token", token)
		c.Next()
	}
}
