package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
)

// CronSecret requires "Authorization: Bearer <CRON_SECRET>". An unset secret rejects everything.
func CronSecret() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := configs.CronSecret
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		const p = "Bearer "
		if secret == "" || len(header) <= len(p) || !strings.EqualFold(header[:len(p)], p) {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
		}
		got := strings.TrimSpace(header[len(p):])
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
		}
		return c.Next()
	}
}
