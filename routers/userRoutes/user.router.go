package userRoutes

import (
	authController "empowerment/controllers/auth"
	userController "empowerment/controllers/user"
	"empowerment/middleware"
	"empowerment/models"
	"empowerment/validators"
	authValidator "empowerment/validators/auth"
	userValidator "empowerment/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/users")
	admin := middleware.RequireRoles(models.RoleAdmin)

	userGroup.Post("/", authValidator.Signup(), authController.Signup)
	userGroup.Get("/me", middleware.JWTMiddleware, middleware.RequireRoles(), authController.Me)

	userGroup.Get("/", middleware.JWTMiddleware, admin, userValidator.List(), userController.List)
	userGroup.Get("/:id", middleware.JWTMiddleware, admin, validators.ID(), userController.Get)
	userGroup.Put("/:id", middleware.JWTMiddleware, admin, validators.ID(), userValidator.Update(), userController.Update)
	userGroup.Delete("/:id", middleware.JWTMiddleware, admin, validators.ID(), userController.Delete)
}
