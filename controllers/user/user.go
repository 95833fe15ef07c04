package userController

import (
	"empowerment/middleware"
	"empowerment/services"

	"github.com/gofiber/fiber/v2"
)

func List(c *fiber.Ctx) error {
	filter := c.Locals("validatedFilter").(*services.UserFilter)

	users, total, err := services.App.ListUsers(c.UserContext(), *filter)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched!", fiber.Map{
		"count":   total,
		"results": users,
	})
}

func Get(c *fiber.Ctx) error {
	user, err := services.App.GetUser(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched!", user)
}

func Update(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*services.UserUpdateInput)

	user, err := services.App.UpdateUser(c.UserContext(), c.Locals("id").(uint), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated!", user)
}

// Delete deactivates the account instead of removing the row.
func Delete(c *fiber.Ctx) error {
	id := c.Locals("id").(uint)
	if id == middleware.UserID(c) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot deactivate your own account!", nil)
	}
	if err := services.App.DeactivateUser(c.UserContext(), id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deactivated!", nil)
}
