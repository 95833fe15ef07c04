package dashboardRoutes

import (
	dashboardController "empowerment/controllers/dashboard"
	"empowerment/middleware"
	"empowerment/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupDashboardRoutes(app *fiber.App) {
	app.Get("/health", dashboardController.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	dashboardGroup := app.Group("/dashboard", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin, models.RoleLoanOfficer))
	dashboardGroup.Get("/summary", dashboardController.Summary)
}
