package middleware

import (
	"crypto/subtle"
	"errors"

	"empowerment/config"
	"empowerment/database"
	"empowerment/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireRoles lets the request through only for active accounts holding one
// of the roles. Must run after JWTMiddleware.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		var user models.User
		err := database.Database.Db.Select("id", "role", "is_active").First(&user, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return JsonResponse(c, fiber.StatusUnauthorized, false, "Account no longer exists!", nil)
			}
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
		}
		if !user.IsActive {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Account is disabled!", nil)
		}

		c.Locals("role", user.Role)
		if len(roles) == 0 {
			return c.Next()
		}
		for _, r := range roles {
			if user.Role == r {
				return c.Next()
			}
		}
		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}

// RequireAPIKey guards machine-to-machine routes with the X-Api-Key header.
func RequireAPIKey(c *fiber.Ctx) error {
	expected := config.AppConfig.BankAPIKey
	got := c.Get("X-Api-Key")
	if expected == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid API key", nil)
	}
	return c.Next()
}
