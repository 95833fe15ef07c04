package staffController

import (
	"empowerment/middleware"
	"empowerment/services"

	"github.com/gofiber/fiber/v2"
)

func CreateSheha(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSheha").(*services.ShehaInput)

	sheha, err := services.App.CreateSheha(c.UserContext(), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Sheha created!", sheha)
}

func ListShehas(c *fiber.Ctx) error {
	page := c.Locals("validatedPage").(*services.Page)

	shehas, total, err := services.App.ListShehas(c.UserContext(), *page)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Shehas fetched!", fiber.Map{
		"count":   total,
		"results": shehas,
	})
}

func GetSheha(c *fiber.Ctx) error {
	sheha, err := services.App.GetSheha(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sheha fetched!", sheha)
}

func UpdateSheha(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSheha").(*services.ShehaUpdateInput)

	sheha, err := services.App.UpdateSheha(c.UserContext(), c.Locals("id").(uint), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sheha updated!", sheha)
}

func DeleteSheha(c *fiber.Ctx) error {
	if err := services.App.DeleteSheha(c.UserContext(), c.Locals("id").(uint)); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sheha removed!", nil)
}
