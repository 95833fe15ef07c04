package notificationController

import (
	"empowerment/middleware"
	"empowerment/services"
	"empowerment/utils"
	notificationValidator "empowerment/validators/notification"

	"github.com/gofiber/fiber/v2"
)

// List returns the calling sheha's verification queue.
func List(c *fiber.Ctx) error {
	query := c.Locals("validatedQuery").(*notificationValidator.QueueQuery)

	requests, err := services.App.ListRequests(c.UserContext(), middleware.UserID(c), query.All)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched!", requests)
}

func Get(c *fiber.Ctx) error {
	req, err := services.App.GetRequest(c.UserContext(), middleware.UserID(c), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification fetched!", req)
}

// Verify approves the applicant behind the request and reports the bank
// outcome. Repeating it is harmless.
func Verify(c *fiber.Ctx) error {
	result, err := services.App.VerifyRequest(c.UserContext(), middleware.UserID(c), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Applicant verified. Bank verification " + utils.BankStatusSummary(result.BankStatus) + "."
	if result.AlreadyVerified {
		message = "Applicant was already verified."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"status":          "verified",
		"bankStatus":      result.BankStatus,
		"alreadyVerified": result.AlreadyVerified,
		"notification":    result.Request,
	})
}

func MarkRead(c *fiber.Ctx) error {
	req, err := services.App.MarkRead(c.UserContext(), middleware.UserID(c), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read!", req)
}
