package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bandofmen/internal/models"
	"bandofmen/internal/services"
)

type VerifyHandler struct {
	accounts services.AccountService
}

func NewVerifyHandler(accounts services.AccountService) *VerifyHandler {
	return &VerifyHandler{accounts: accounts}
}

// @Summary      Отправка кода подтверждения
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /send-code [post]
func (h *VerifyHandler) SendCode(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Type  string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Email == "" || req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and type are required"})
		return
	}

	if err := h.accounts.SendCode(req.Email, models.Purpose(req.Type)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code sent"})
}

// @Summary      Проверка кода подтверждения
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /verify-code [post]
func (h *VerifyHandler) ConfirmCode(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
		Type  string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Email == "" || req.Code == "" || req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, code, and type are required"})
		return
	}

	if err := h.accounts.ConfirmCode(req.Email, req.Code, models.Purpose(req.Type)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Code verified successfully"})
}
