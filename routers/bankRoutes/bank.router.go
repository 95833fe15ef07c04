package bankRoutes

import (
	bankController "empowerment/controllers/bank"
	"empowerment/middleware"
	"empowerment/models"
	"empowerment/validators"
	bankValidator "empowerment/validators/bank"

	"github.com/gofiber/fiber/v2"
)

func SetupBankRoutes(app *fiber.App) {
	// Lookup endpoint consumed by RemoteLedger.
	app.Get("/bank/active-loans", middleware.RequireAPIKey, bankValidator.ActiveLoan(), bankController.ActiveLoan)

	loanGroup := app.Group("/bank-loans", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin))
	loanGroup.Get("/", bankValidator.List(), bankController.List)
	loanGroup.Post("/", bankValidator.BankLoan(), bankController.Create)
	loanGroup.Get("/:id", validators.ID(), bankController.Get)
	loanGroup.Put("/:id", validators.ID(), bankValidator.BankLoan(), bankController.Update)
	loanGroup.Delete("/:id", validators.ID(), bankController.Delete)
}
