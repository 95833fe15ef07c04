package authValidator

import (
	"empowerment/services"
	"empowerment/validators"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Signup validator middleware
func Signup() fiber.Handler {
	return validators.Body[services.AccountInput]("validatedUser")
}

// Login validator middleware
func Login() fiber.Handler {
	return validators.Body[LoginRequest]("validatedLogin")
}

// Refresh validates the refresh token body, used by refresh and logout.
func Refresh() fiber.Handler {
	return validators.Body[RefreshRequest]("validatedRefresh")
}

func LoginHistory() fiber.Handler {
	return validators.Query[services.Page]("validatedPage")
}
