package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/logging"
	"erpr_backend/internals/observability"
)

// ErrorHandler is installed as fiber.Config.ErrorHandler. *fiber.Error keeps its
// code and message; *ValidationError renders as 422; anything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return JsonValidationError(c, ve.Fields)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= 500 {
			logging.L().Errorw("request failed", "path", c.Path(), "method", c.Method(), "error", fe.Message)
			observability.CaptureErr(fe)
		}
		return JsonError(c, fe.Code, fe.Message)
	}

	logging.L().Errorw("unhandled error", "path", c.Path(), "method", c.Method(), "error", err)
	observability.CaptureErr(err)
	return JsonError(c, fiber.StatusInternalServerError, constants.MsgInternalError)
}

// Internal logs err and returns a generic 500 for the client.
func Internal(err error, context string) error {
	logging.L().Errorw(context, "error", err)
	observability.CaptureErr(err)
	return fiber.NewError(fiber.StatusInternalServerError, constants.MsgInternalError)
}
