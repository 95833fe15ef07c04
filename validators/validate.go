package validators

import (
	"empowerment/middleware"
	"empowerment/services"

	"github.com/gofiber/fiber/v2"
)

// Body parses the JSON body into T, runs its validate tags and hands the
// result to the next handler under key.
func Body[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if verr := services.ValidateStruct(reqData); verr != nil {
			return middleware.ValidationErrorResponse(c, verr.Fields)
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}

// OptionalBody behaves like Body but treats an empty body as a zero T.
func OptionalBody[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		if verr := services.ValidateStruct(reqData); verr != nil {
			return middleware.ValidationErrorResponse(c, verr.Fields)
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}

// Query does the same for query string parameters.
func Query[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if verr := services.ValidateStruct(reqData); verr != nil {
			return middleware.ValidationErrorResponse(c, verr.Fields)
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}

// ID validates the :id route parameter and stores it as uint under "id".
func ID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"id": "Invalid id!"})
		}
		c.Locals("id", uint(id))
		return c.Next()
	}
}
