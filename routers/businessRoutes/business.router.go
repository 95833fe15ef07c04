package businessRoutes

import (
	businessController "empowerment/controllers/business"
	"empowerment/middleware"
	"empowerment/validators"
	businessValidator "empowerment/validators/business"

	"github.com/gofiber/fiber/v2"
)

// Applicants reach only their own business; the service scopes by role.
func SetupBusinessRoutes(app *fiber.App) {
	businessGroup := app.Group("/businesses", middleware.JWTMiddleware, middleware.RequireRoles())

	businessGroup.Get("/", businessValidator.List(), businessController.List)
	businessGroup.Post("/", businessValidator.Business(), businessController.Create)
	businessGroup.Get("/:id", validators.ID(), businessController.Get)
	businessGroup.Put("/:id", validators.ID(), businessValidator.Business(), businessController.Update)
	businessGroup.Delete("/:id", validators.ID(), businessController.Delete)
}
