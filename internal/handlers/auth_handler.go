package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bandofmen/internal/models"
	"bandofmen/internal/services"
)

type AuthHandler struct {
	accounts services.AccountService
}

func NewAuthHandler(accounts services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// @Summary      Регистрация
// @Description  Двухшаговая регистрация: без кода возвращает requiresVerification, с кодом создаёт аккаунт и сессию
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        signup  body      models.SignupRequest  true  "Данные регистрации"
// @Success      200     {object}  map[string]interface{}
// @Success      201     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, password, and name are required"})
		return
	}

	res, err := h.accounts.Signup(req.Email, req.Password, req.Name, req.VerificationCode)
	if err != nil {
		respondError(c, err)
		return
	}

	if res.RequiresVerification {
		c.JSON(http.StatusOK, gin.H{
			"success":              true,
			"requiresVerification": true,
			"message":              "Please verify your email",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    publicUser(res.User),
		"token":   res.Token,
	})
}

// @Summary      Вход
// @Description  Аутентификация по email и паролю; при включённой 2FA требуется код из письма
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      429    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	res, err := h.accounts.Login(req.Email, req.Password, req.TwoFactorCode, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	if res.Requires2FA {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"requires2FA": true,
			"message":     "Two-factor authentication required",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    publicUser(res.User),
		"token":   res.Token,
	})
}
