package staffRoutes

import (
	staffController "empowerment/controllers/staff"
	"empowerment/middleware"
	"empowerment/models"
	"empowerment/validators"
	staffValidator "empowerment/validators/staff"

	"github.com/gofiber/fiber/v2"
)

func SetupStaffRoutes(app *fiber.App) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	shehaGroup := app.Group("/shehas", middleware.JWTMiddleware, admin)
	shehaGroup.Get("/", staffValidator.List(), staffController.ListShehas)
	shehaGroup.Post("/", staffValidator.CreateSheha(), staffController.CreateSheha)
	shehaGroup.Get("/:id", validators.ID(), staffController.GetSheha)
	shehaGroup.Put("/:id", validators.ID(), staffValidator.UpdateSheha(), staffController.UpdateSheha)
	shehaGroup.Delete("/:id", validators.ID(), staffController.DeleteSheha)

	officerGroup := app.Group("/loan-officers", middleware.JWTMiddleware, admin)
	officerGroup.Get("/", staffValidator.List(), staffController.ListLoanOfficers)
	officerGroup.Post("/", staffValidator.CreateLoanOfficer(), staffController.CreateLoanOfficer)
	officerGroup.Get("/:id", validators.ID(), staffController.GetLoanOfficer)
	officerGroup.Put("/:id", validators.ID(), staffValidator.UpdateLoanOfficer(), staffController.UpdateLoanOfficer)
	officerGroup.Delete("/:id", validators.ID(), staffController.DeleteLoanOfficer)
}
