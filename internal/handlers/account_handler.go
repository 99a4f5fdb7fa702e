package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bandofmen/internal/models"
	"bandofmen/internal/services"
)

// AccountHandler обслуживает эндпоинты под Bearer-токеном; пользователя в
// контекст кладёт session-middleware.
type AccountHandler struct {
	accounts services.AccountService
	sessions services.SessionService
}

func NewAccountHandler(accounts services.AccountService, sessions services.SessionService) *AccountHandler {
	return &AccountHandler{accounts: accounts, sessions: sessions}
}

// @Summary      Профиль текущего пользователя
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /user [get]
func (h *AccountHandler) GetUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrUnauthenticated.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": publicUser(user)})
}

// @Summary      Выход
// @Tags         Account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /user [delete]
func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.sessions.Revoke(currentToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// @Summary      Смена пароля
// @Tags         Account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /change-password [post]
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrUnauthenticated.Error()})
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current and new password are required"})
		return
	}

	if err := h.accounts.ChangePassword(user, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

// @Summary      Включение/выключение 2FA
// @Tags         Account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /toggle-2fa [post]
func (h *AccountHandler) Toggle2FA(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrUnauthenticated.Error()})
		return
	}

	var req models.Toggle2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Enable == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Enable parameter is required"})
		return
	}

	res, err := h.accounts.Toggle2FA(user, *req.Enable, req.VerificationCode)
	if err != nil {
		respondError(c, err)
		return
	}

	if res.RequiresVerification {
		c.JSON(http.StatusOK, gin.H{
			"success":              true,
			"requiresVerification": true,
			"message":              "Please verify with email code",
		})
		return
	}

	msg := "Two-factor authentication disabled"
	if res.Enabled {
		msg = "Two-factor authentication enabled"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"two_factor_enabled": res.Enabled,
		"message":            msg,
	})
}
