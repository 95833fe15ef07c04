package applicantRoutes

import (
	applicantController "empowerment/controllers/applicant"
	"empowerment/middleware"
	"empowerment/models"
	"empowerment/validators"
	applicantValidator "empowerment/validators/applicant"

	"github.com/gofiber/fiber/v2"
)

func SetupApplicantRoutes(app *fiber.App) {
	applicantGroup := app.Group("/applicants", middleware.JWTMiddleware)
	active := middleware.RequireRoles()
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleLoanOfficer, models.RoleSheha)
	admin := middleware.RequireRoles(models.RoleAdmin)

	// /me routes go first so "me" is never parsed as an id.
	applicantGroup.Get("/me", active, applicantController.Me)
	applicantGroup.Post("/me/passport", active, applicantController.UploadPassport)

	applicantGroup.Get("/", staff, applicantValidator.List(), applicantController.List)
	applicantGroup.Post("/", active, applicantValidator.Register(), applicantController.Register)
	applicantGroup.Get("/:id", staff, validators.ID(), applicantController.Get)
	applicantGroup.Put("/:id", admin, validators.ID(), applicantValidator.Register(), applicantController.Update)
	applicantGroup.Delete("/:id", admin, validators.ID(), applicantController.Delete)
	applicantGroup.Post("/:id/bank-check", admin, validators.ID(), applicantController.RecheckBank)
}
