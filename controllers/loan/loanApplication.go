package loanController

import (
	"empowerment/middleware"
	"empowerment/models"
	"empowerment/services"
	loanValidator "empowerment/validators/loan"

	"github.com/gofiber/fiber/v2"
)

func Apply(c *fiber.Ctx) error {
	reqData := c.Locals("validatedApplication").(*services.LoanApplicationInput)

	application, err := services.App.SubmitLoanApplication(c.UserContext(), middleware.UserID(c), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Loan application submitted!", application)
}

func List(c *fiber.Ctx) error {
	query := c.Locals("validatedFilter").(*loanValidator.ApplicationQuery)

	applications, total, err := services.App.ListLoanApplications(c.UserContext(), middleware.UserID(c), middleware.Role(c), query.Filter())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan applications fetched!", fiber.Map{
		"count":   total,
		"results": applications,
	})
}

func Get(c *fiber.Ctx) error {
	application, err := services.App.GetLoanApplication(c.UserContext(), middleware.UserID(c), middleware.Role(c), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan application fetched!", fiber.Map{
		"application": application,
		"outstanding": application.Outstanding(),
	})
}

func decide(c *fiber.Ctx, decision string) error {
	reqData := c.Locals("validatedDecision").(*services.DecisionInput)

	application, err := services.App.DecideLoanApplication(c.UserContext(), middleware.UserID(c), c.Locals("id").(uint), decision, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan application "+decision+"!", application)
}

func Approve(c *fiber.Ctx) error {
	return decide(c, models.DecisionApproved)
}

func Reject(c *fiber.Ctx) error {
	return decide(c, models.DecisionRejected)
}
