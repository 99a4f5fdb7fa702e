package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"bandofmen/internal/models"
	"bandofmen/internal/services"
)

// respondError — единая раскладка ошибок сервисов по HTTP-статусам.
// Всё неожиданное уходит как generic 500, детали остаются в логе.
func respondError(c *gin.Context, err error) {
	var tooMany *services.TooManyAttemptsError
	if errors.As(err, &tooMany) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":      tooMany.Error(),
			"retryAfter": tooMany.RetryAfterMinutes,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrPasswordTooLong),
		errors.Is(err, services.ErrSamePassword),
		errors.Is(err, services.ErrInvalidPurpose),
		errors.Is(err, services.ErrCodeInvalid),
		errors.Is(err, services.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrEmailNotVerified),
		errors.Is(err, services.ErrUnauthenticated),
		errors.Is(err, services.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDeliveryFailure):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		log.Printf("[http] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an internal error occurred"})
	}
}

// currentUser — пользователь, положенный в контекст session-middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

func currentToken(c *gin.Context) string {
	return c.GetString("session_token")
}

// publicUser — профиль без служебных полей.
func publicUser(u *models.User) gin.H {
	return gin.H{
		"id":                 u.ID,
		"email":              u.Email,
		"name":               u.Name,
		"created_at":         u.CreatedAt,
		"two_factor_enabled": u.TwoFactorEnabled,
	}
}
