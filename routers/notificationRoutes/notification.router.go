package notificationRoutes

import (
	notificationController "empowerment/controllers/notification"
	"empowerment/middleware"
	"empowerment/models"
	"empowerment/validators"
	notificationValidator "empowerment/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notifications", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleSheha))

	notificationGroup.Get("/", notificationValidator.List(), notificationController.List)
	notificationGroup.Get("/:id", validators.ID(), notificationController.Get)
	notificationGroup.Post("/:id/verify", validators.ID(), notificationController.Verify)
	notificationGroup.Patch("/:id/read", validators.ID(), notificationController.MarkRead)
}
