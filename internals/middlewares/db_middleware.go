package middlewares

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const RequestTimeout = 10 * time.Second

// DBMiddleware bounds every request with a deadline (picked up by gorm through
// c.UserContext()) and exposes the connection in Locals("db").
func DBMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), RequestTimeout)
		defer cancel()
		c.SetUserContext(ctx)
		c.Locals("db", db.WithContext(ctx))
		return c.Next()
	}
}
