package loanController

import (
	"empowerment/middleware"
	"empowerment/services"

	"github.com/gofiber/fiber/v2"
)

func ListLoanTypes(c *fiber.Ctx) error {
	types, err := services.App.ListLoanTypes(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan types fetched!", types)
}

func CreateLoanType(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLoanType").(*services.LoanTypeInput)

	lt, err := services.App.CreateLoanType(c.UserContext(), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Loan type created!", lt)
}

func UpdateLoanType(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLoanType").(*services.LoanTypeInput)

	lt, err := services.App.UpdateLoanType(c.UserContext(), c.Locals("id").(uint), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan type updated!", lt)
}

func DeleteLoanType(c *fiber.Ctx) error {
	if err := services.App.DeleteLoanType(c.UserContext(), c.Locals("id").(uint)); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan type deleted!", nil)
}

func GetLoanType(c *fiber.Ctx) error {
	lt, err := services.App.GetLoanType(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan type fetched!", lt)
}
