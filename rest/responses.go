package rest

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	workhive "github.com/workhive/workhive"
)

// Logger is the slice of the workhive logger the controllers need
type Logger = workhive.Logger

// RenderError maps the error taxonomy onto transport codes. Validation maps
// to 400, anything auth-flavored to 401, conflicts to 409, and everything
// else collapses to a logged 500 with a generic body: callers never see
// store-specific error text or stack traces.
func RenderError(c *fiber.Ctx, logger Logger, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		logger.Error("unhandled error at REST boundary", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		body := fiber.Map{"error": richErr.Message}
		if details, ok := richErr.Metadata["details"]; ok {
			body["details"] = details
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.CategoryAuth:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": richErr.Message,
		})
	case errors.CategoryConflict:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": richErr.Message,
		})
	case errors.CategoryNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": richErr.Message,
		})
	default:
		logger.Error("internal error at REST boundary", "error", richErr, "category", richErr.Category)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

// ValidationFailed wraps ozzo validation output into a 400-mapped error,
// carrying per-field messages as details
func ValidationFailed(err error) error {
	return errors.New("validation failed", errors.CategoryValidation).
		WithTextCode(workhive.TextCodeValidationFailed).
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{
			"details": FormatValidationErrorToMap(err),
		})
}

// FormatValidationErrorToMap flattens ozzo's per-field errors into a plain
// string map for JSON responses
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if fields, ok := err.(validation.Errors); ok {
		for name, ferr := range fields {
			if ferr != nil {
				out[name] = ferr.Error()
			}
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}
