package authRoutes

import (
	authController "empowerment/controllers/auth"
	"empowerment/middleware"
	authValidator "empowerment/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	app.Post("/login", authValidator.Login(), authController.Login)
	app.Post("/token/refresh", authValidator.Refresh(), authController.RefreshToken)

	authGroup := app.Group("/auth")
	authGroup.Post("/logout", middleware.JWTMiddleware, authValidator.Refresh(), authController.Logout)
	authGroup.Get("/login/history", middleware.JWTMiddleware, authValidator.LoginHistory(), authController.LoginHistory)
}
