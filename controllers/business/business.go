package businessController

import (
	"empowerment/middleware"
	"empowerment/services"

	"github.com/gofiber/fiber/v2"
)

func Create(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBusiness").(*services.BusinessInput)

	business, err := services.App.RegisterBusiness(c.UserContext(), middleware.UserID(c), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Business registered!", business)
}

func List(c *fiber.Ctx) error {
	page := c.Locals("validatedPage").(*services.Page)

	businesses, total, err := services.App.ListBusinesses(c.UserContext(), middleware.UserID(c), middleware.Role(c), *page)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Businesses fetched!", fiber.Map{
		"count":   total,
		"results": businesses,
	})
}

func Get(c *fiber.Ctx) error {
	business, err := services.App.GetBusiness(c.UserContext(), middleware.UserID(c), middleware.Role(c), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Business fetched!", business)
}

func Update(c *fiber.Ctx) error {
	reqData := c.Locals("validatedBusiness").(*services.BusinessInput)

	business, err := services.App.UpdateBusiness(c.UserContext(), middleware.UserID(c), middleware.Role(c), c.Locals("id").(uint), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Business updated!", business)
}

func Delete(c *fiber.Ctx) error {
	if err := services.App.DeleteBusiness(c.UserContext(), middleware.UserID(c), middleware.Role(c), c.Locals("id").(uint)); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Business deleted!", nil)
}
