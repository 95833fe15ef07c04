package applicantController

import (
	"errors"

	"empowerment/config"
	"empowerment/middleware"
	"empowerment/services"
	"empowerment/utils"

	"github.com/gofiber/fiber/v2"
)

// Register creates the caller's applicant profile.
func Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedApplicant").(*services.ApplicantInput)

	applicant, err := services.App.RegisterApplicant(c.UserContext(), middleware.UserID(c), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	message := "Applicant registered and sent to the ward sheha!"
	if applicant.ShehaID == nil {
		message = "Applicant registered. No sheha serves this ward yet."
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, message, applicant)
}

func List(c *fiber.Ctx) error {
	filter := c.Locals("validatedFilter").(*services.ApplicantFilter)

	applicants, total, err := services.App.ListApplicants(c.UserContext(), *filter)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applicants fetched!", fiber.Map{
		"count":   total,
		"results": applicants,
	})
}

func Get(c *fiber.Ctx) error {
	applicant, err := services.App.GetApplicant(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applicant fetched!", applicant)
}

func Update(c *fiber.Ctx) error {
	reqData := c.Locals("validatedApplicant").(*services.ApplicantInput)

	applicant, err := services.App.UpdateApplicant(c.UserContext(), c.Locals("id").(uint), *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applicant updated!", applicant)
}

func Delete(c *fiber.Ctx) error {
	if err := services.App.DeleteApplicant(c.UserContext(), c.Locals("id").(uint)); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applicant deleted!", nil)
}

// RecheckBank re-runs the bank eligibility lookup for one applicant.
func RecheckBank(c *fiber.Ctx) error {
	applicant, err := services.App.RecheckBankStatus(c.UserContext(), c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bank status refreshed!", applicant)
}

func Me(c *fiber.Ctx) error {
	applicant, err := services.App.ApplicantForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applicant fetched!", applicant)
}

func UploadPassport(c *fiber.Ctx) error {
	file, err := c.FormFile("passport")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"passport": "Passport photo is required!"})
	}

	name, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
	if errors.Is(err, utils.ErrUnsupportedFile) {
		return middleware.ValidationErrorResponse(c, map[string]string{"passport": "Upload a JPG or PNG image up to 5MB!"})
	}
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	applicant, err := services.App.SetPassportPath(c.UserContext(), middleware.UserID(c), name)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Passport uploaded!", fiber.Map{
		"applicant": applicant,
		"url":       utils.GetFileURL(name),
	})
}
