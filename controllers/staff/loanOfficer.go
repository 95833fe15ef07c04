package staffController

import (
	"empowerment/middleware"
	"empowerment/services"

	"github.com/gofiber/fiber/v2"
)

func CreateLoanOfficer(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOfficer").(*services.LoanOfficerInput)

	officer, err := services.App.CreateLoanOfficer(c.UserContext(), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Loan officer created!", officer)
}

func ListLoanOfficers(c *fiber.Ctx) error {
	page := c.Locals("validatedPage").(*services.Page)

	officers, total, err := services.App.ListLoanOfficers(c.UserContext(), *page)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan officers fetched!", fiber.Map{
		"count":   total,
		"results": officers,
	})
}

func DeleteLoanOfficer(c *fiber.Ctx) error {
	if err := services.App.DeleteLoanOfficer(c.UserContext(), c.Locals("id").(uint)); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan officer removed!", nil)
}

func GetLoanOfficer(c *fiber.Ctx) error {
	officer, err := services.App.GetLoanOfficer(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan officer fetched!", officer)
}

func UpdateLoanOfficer(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOfficer").(*services.LoanOfficerUpdateInput)

	officer, err := services.App.UpdateLoanOfficer(c.UserContext(), c.Locals("id").(uint), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan officer updated!", officer)
}
