package dashboardController

import (
	"empowerment/database"
	"empowerment/middleware"
	"empowerment/services"

	"github.com/gofiber/fiber/v2"
)

func Summary(c *fiber.Ctx) error {
	summary, err := services.App.Dashboard(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched!", summary)
}

func Health(c *fiber.Ctx) error {
	sqlDB, err := database.Database.Db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Database unreachable!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
}
