package middlewares

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"erpr_backend/internals/logging"
	"erpr_backend/internals/observability"
)

// RecoveryMiddleware turns panics into errors for the central error handler.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logging.L().Errorw("panic recovered", "path", c.Path(), "method", c.Method(), "panic", e)
			observability.CaptureErr(fmt.Errorf("panic: %v", e))
		},
	})
}
