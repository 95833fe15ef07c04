package authController

import (
	"time"

	"empowerment/logger"
	"empowerment/middleware"
	"empowerment/services"
	authValidator "empowerment/validators/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func Signup(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*services.AccountInput)

	user, err := services.App.Signup(c.UserContext(), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Signup successful!", user)
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	user, err := services.App.Authenticate(c.UserContext(), reqData.Username, reqData.Password)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	services.App.RecordLogin(c.UserContext(), user.ID, c.IP(), c.Get("User-Agent"))

	pair, err := middleware.GenerateTokenPair(*user)
	if err != nil {
		logger.Log.Error("signing tokens", zap.Uint("userId", user.ID), zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"access":   pair.Access,
		"refresh":  pair.Refresh,
		"role":     user.Role.Label(),
		"userId":   user.ID,
		"username": user.Username,
	})
}

// RefreshToken trades a live refresh token for a new pair and retires the
// old one.
func RefreshToken(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRefresh").(*authValidator.RefreshRequest)
	ctx := c.UserContext()

	claims, err := middleware.ParseToken(reqData.Refresh, middleware.RefreshToken)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	user, err := services.App.GetUser(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Account is disabled!", nil)
	}

	// Only the caller that retires the old token gets a new pair.
	won, err := services.App.Tokens.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !won {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Token has been revoked", nil)
	}

	pair, err := middleware.GenerateTokenPair(*user)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token refreshed!", pair)
}

func Logout(c *fiber.Ctx) error {
	reqData := c.Locals("validatedRefresh").(*authValidator.RefreshRequest)

	claims, err := middleware.ParseToken(reqData.Refresh, middleware.RefreshToken)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired token", nil)
	}
	if claims.UserID != middleware.UserID(c) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Token belongs to another account!", nil)
	}

	if _, err := services.App.Tokens.Revoke(c.UserContext(), claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out!", nil)
}

func Me(c *fiber.Ctx) error {
	user, err := services.App.GetUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched!", fiber.Map{
		"user": user,
		"role": user.Role.Label(),
	})
}

func LoginHistory(c *fiber.Ctx) error {
	page := c.Locals("validatedPage").(*services.Page)

	records, total, err := services.App.LoginHistory(c.UserContext(), middleware.UserID(c), *page)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	p := page.Normalize()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched!", fiber.Map{
		"logins": records,
		"pagination": fiber.Map{
			"total": total,
			"page":  p.Page,
			"limit": p.Limit,
		},
	})
}
