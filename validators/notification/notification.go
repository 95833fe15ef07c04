package notificationValidator

import (
	"empowerment/validators"

	"github.com/gofiber/fiber/v2"
)

type QueueQuery struct {
	All bool `query:"all"`
}

func List() fiber.Handler {
	return validators.Query[QueueQuery]("validatedQuery")
}
