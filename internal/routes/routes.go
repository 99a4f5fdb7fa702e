package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bandofmen/internal/handlers"
	"bandofmen/internal/middleware"
	"bandofmen/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	verifyHandler *handlers.VerifyHandler,
	accountHandler *handlers.AccountHandler,
	sessions services.SessionService,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// ---- public
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)
	api.POST("/send-code", verifyHandler.SendCode)
	api.POST("/verify-code", verifyHandler.ConfirmCode)

	// ---- protected
	authed := api.Group("", middleware.SessionAuth(sessions))
	{
		authed.GET("/user", accountHandler.GetUser)
		authed.DELETE("/user", accountHandler.Logout)
		authed.POST("/change-password", accountHandler.ChangePassword)
		authed.POST("/toggle-2fa", accountHandler.Toggle2FA)
	}

	return r
}
