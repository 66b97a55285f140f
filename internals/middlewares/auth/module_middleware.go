package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/access"
)

const LocModule = "module"

// RequireModule resolves :module and rejects callers with no access at all to it.
// Per-chapter checks stay in the handlers.
func RequireModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		module := strings.ToLower(strings.TrimSpace(c.Params("module")))
		if !constants.IsContentModule(module) {
			return fiber.NewError(fiber.StatusNotFound, constants.MsgUnknownModule)
		}
		u, err := CurrentUser(c)
		if err != nil {
			return err
		}
		if !access.CanAccessModule(u, module, time.Now()) {
			return fiber.NewError(fiber.StatusForbidden, constants.MsgSubscribersOnly)
		}
		c.Locals(LocModule, module)
		return c.Next()
	}
}

// ResolveModule only validates :module (used on staff routes).
func ResolveModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		module := strings.ToLower(strings.TrimSpace(c.Params("module")))
		if !constants.IsContentModule(module) {
			return fiber.NewError(fiber.StatusNotFound, constants.MsgUnknownModule)
		}
		c.Locals(LocModule, module)
		return c.Next()
	}
}

func Module(c *fiber.Ctx) string {
	m, _ := c.Locals(LocModule).(string)
	return m
}
