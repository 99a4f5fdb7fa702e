package main

import "bandofmen/internal/app"

// @title           Band of Men Account API
// @version         1.0
// @description     Аккаунты барбершопа: регистрация с подтверждением email, вход с 2FA, сессии.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
