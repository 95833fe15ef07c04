package staffValidator

import (
	"empowerment/services"
	"empowerment/validators"

	"github.com/gofiber/fiber/v2"
)

func CreateSheha() fiber.Handler {
	return validators.Body[services.ShehaInput]("validatedSheha")
}

func UpdateSheha() fiber.Handler {
	return validators.Body[services.ShehaUpdateInput]("validatedSheha")
}

func CreateLoanOfficer() fiber.Handler {
	return validators.Body[services.LoanOfficerInput]("validatedOfficer")
}

func List() fiber.Handler {
	return validators.Query[services.Page]("validatedPage")
}

func UpdateLoanOfficer() fiber.Handler {
	return validators.Body[services.LoanOfficerUpdateInput]("validatedOfficer")
}
