package bankController

import (
	"empowerment/bank"
	"empowerment/database"
	"empowerment/middleware"
	bankModels "empowerment/models/bank"
	"empowerment/services"
	bankValidator "empowerment/validators/bank"

	"github.com/gofiber/fiber/v2"
)

func store() *bank.Store {
	return bank.NewStore(database.Database.BankDb)
}

// ActiveLoan answers the eligibility lookup for remote ledgers.
func ActiveLoan(c *fiber.Ctx) error {
	query := c.Locals("validatedQuery").(*bankValidator.ActiveLoanQuery)

	active, err := store().HasActiveLoan(c.UserContext(), query.BankNo)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lookup complete!", bank.ActiveLoanResponse{
		BankNo:        query.BankNo,
		HasActiveLoan: active,
	})
}

func List(c *fiber.Ctx) error {
	query := c.Locals("validatedQuery").(*bankValidator.ListQuery)
	page := services.Page{Page: query.Page, Limit: query.Limit}.Normalize()

	loans, total, err := store().List(c.UserContext(), query.BankNo, page.Offset(), page.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bank loans fetched!", fiber.Map{
		"count":   total,
		"results": loans,
	})
}

func Get(c *fiber.Ctx) error {
	loan, err := store().Get(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bank loan fetched!", loan)
}

func Create(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBankLoan").(*bankValidator.BankLoanRequest)

	var loan bankModels.MockBankLoan
	reqData.Apply(&loan)
	if err := store().Create(c.UserContext(), &loan); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Bank loan created!", loan)
}

func Update(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBankLoan").(*bankValidator.BankLoanRequest)
	s := store()

	loan, err := s.Get(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData.Apply(loan)
	if loan.LoanStatus == "" {
		loan.LoanStatus = "N/A"
	}
	if err := s.Save(c.UserContext(), loan); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bank loan updated!", loan)
}

func Delete(c *fiber.Ctx) error {
	if err := store().Delete(c.UserContext(), c.Locals("id").(uint)); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bank loan deleted!", nil)
}
