package loanController

import (
	"empowerment/middleware"
	"empowerment/services"

	"github.com/gofiber/fiber/v2"
)

// Loans lists approved applications with what is still owed.
func Loans(c *fiber.Ctx) error {
	page := c.Locals("validatedPage").(*services.Page)

	loans, total, err := services.App.ListLoans(c.UserContext(), middleware.UserID(c), middleware.Role(c), *page)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	results := make([]fiber.Map, 0, len(loans))
	for _, l := range loans {
		results = append(results, fiber.Map{
			"loan":        l,
			"outstanding": l.Outstanding(),
		})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loans fetched!", fiber.Map{
		"count":   total,
		"results": results,
	})
}

func CreateRepayment(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRepayment").(*services.RepaymentInput)

	repayment, err := services.App.RecordRepayment(c.UserContext(), middleware.UserID(c), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Repayment recorded!", repayment)
}

func ListRepayments(c *fiber.Ctx) error {
	repayments, err := services.App.ListRepayments(c.UserContext(), middleware.UserID(c), middleware.Role(c), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Repayments fetched!", repayments)
}

func GetLoan(c *fiber.Ctx) error {
	loan, err := services.App.GetLoan(c.UserContext(), middleware.UserID(c), middleware.Role(c), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan fetched!", fiber.Map{
		"loan":        loan,
		"outstanding": loan.Outstanding(),
	})
}

func AllRepayments(c *fiber.Ctx) error {
	filter := c.Locals("validatedFilter").(*services.RepaymentFilter)

	repayments, total, err := services.App.ListAllRepayments(c.UserContext(), middleware.UserID(c), middleware.Role(c), *filter)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Repayments fetched!", fiber.Map{
		"count":   total,
		"results": repayments,
	})
}

func GetRepayment(c *fiber.Ctx) error {
	repayment, err := services.App.GetRepayment(c.UserContext(), middleware.UserID(c), middleware.Role(c), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Repayment fetched!", repayment)
}
