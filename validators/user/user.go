package userValidator

import (
	"empowerment/services"
	"empowerment/validators"

	"github.com/gofiber/fiber/v2"
)

func Update() fiber.Handler {
	return validators.Body[services.UserUpdateInput]("validatedUser")
}

func List() fiber.Handler {
	return validators.Query[services.UserFilter]("validatedFilter")
}
