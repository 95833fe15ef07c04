package middleware

import (
	"errors"

	"empowerment/bank"
	"empowerment/logger"
	"empowerment/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse maps a service error onto the response envelope.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return ValidationErrorResponse(c, verr.Fields)
	case errors.Is(err, services.ErrInvalidCredentials):
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid username or password!", nil)
	case errors.Is(err, services.ErrNotFound), errors.Is(err, bank.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, services.ErrForbidden):
		return JsonResponse(c, fiber.StatusForbidden, false, err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		return JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, bank.ErrUnavailable):
		logger.Log.Warn("bank unavailable", zap.String("path", c.Path()), zap.Error(err))
		return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Bank service is unavailable, try again later!", nil)
	default:
		logger.Log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
}
