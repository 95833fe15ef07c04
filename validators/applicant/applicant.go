package applicantValidator

import (
	"empowerment/services"
	"empowerment/validators"

	"github.com/gofiber/fiber/v2"
)

func Register() fiber.Handler {
	return validators.Body[services.ApplicantInput]("validatedApplicant")
}

func List() fiber.Handler {
	return validators.Query[services.ApplicantFilter]("validatedFilter")
}
