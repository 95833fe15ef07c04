package loanRoutes

import (
	loanController "empowerment/controllers/loan"
	"empowerment/middleware"
	"empowerment/models"
	"empowerment/validators"
	loanValidator "empowerment/validators/loan"

	"github.com/gofiber/fiber/v2"
)

func SetupLoanRoutes(app *fiber.App) {
	active := middleware.RequireRoles()
	admin := middleware.RequireRoles(models.RoleAdmin)
	reviewers := middleware.RequireRoles(models.RoleAdmin, models.RoleLoanOfficer)

	typeGroup := app.Group("/loan-types", middleware.JWTMiddleware)
	typeGroup.Get("/", active, loanController.ListLoanTypes)
	typeGroup.Get("/:id", active, validators.ID(), loanController.GetLoanType)
	typeGroup.Post("/", admin, loanValidator.LoanType(), loanController.CreateLoanType)
	typeGroup.Put("/:id", admin, validators.ID(), loanValidator.LoanType(), loanController.UpdateLoanType)
	typeGroup.Delete("/:id", admin, validators.ID(), loanController.DeleteLoanType)

	// Applicant accounts only ever see their own applications.
	applicationGroup := app.Group("/loan-applications", middleware.JWTMiddleware, active)
	applicationGroup.Get("/", loanValidator.List(), loanController.List)
	applicationGroup.Post("/", loanValidator.Apply(), loanController.Apply)
	applicationGroup.Get("/:id", validators.ID(), loanController.Get)
	applicationGroup.Post("/:id/approve", reviewers, validators.ID(), loanValidator.Decide(), loanController.Approve)
	applicationGroup.Post("/:id/reject", reviewers, validators.ID(), loanValidator.Decide(), loanController.Reject)

	loanGroup := app.Group("/loans", middleware.JWTMiddleware, active)
	loanGroup.Get("/", loanValidator.Page(), loanController.Loans)
	loanGroup.Get("/:id", validators.ID(), loanController.GetLoan)
	loanGroup.Get("/:id/repayments", validators.ID(), loanController.ListRepayments)

	repaymentGroup := app.Group("/repayments", middleware.JWTMiddleware, active)
	repaymentGroup.Get("/", loanValidator.RepaymentList(), loanController.AllRepayments)
	repaymentGroup.Post("/", reviewers, loanValidator.Repayment(), loanController.CreateRepayment)
	repaymentGroup.Get("/:id", validators.ID(), loanController.GetRepayment)
}
