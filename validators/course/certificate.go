package courseValidator

import (
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func GenerateCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func BackfillCertificates() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseIDs []uint `json:"course_ids" validate:"required,min=1,dive,gt=0"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			if fieldErrs, ok := err.(validator.ValidationErrors); ok {
				for _, fieldErr := range fieldErrs {
					errors[fieldErr.Field()] = "Invalid value!"
				}
			}
			if len(errors) == 0 {
				errors["course_ids"] = "At least one valid course ID is required!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBackfill", reqData)
		return c.Next()
	}
}
