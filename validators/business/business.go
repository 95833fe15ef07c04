package businessValidator

import (
	"empowerment/services"
	"empowerment/validators"

	"github.com/gofiber/fiber/v2"
)

func Business() fiber.Handler {
	return validators.Body[services.BusinessInput]("validatedBusiness")
}

func List() fiber.Handler {
	return validators.Query[services.Page]("validatedPage")
}
