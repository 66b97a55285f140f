package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "erpr_backend/internals/helpers"
)

func ipLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

func GlobalRateLimiter() fiber.Handler {
	return ipLimiter(100, time.Minute, "Trop de requêtes. Veuillez réessayer plus tard.")
}

func LoginRateLimiter() fiber.Handler {
	return ipLimiter(5, time.Minute, "Trop de tentatives de connexion. Réessayez dans quelques instants.")
}

func RegisterRateLimiter() fiber.Handler {
	return ipLimiter(3, 5*time.Minute, "Trop de tentatives d'inscription. Patientez quelques minutes.")
}

func ForgotPasswordRateLimiter() fiber.Handler {
	return ipLimiter(2, 10*time.Minute, "Trop de demandes de réinitialisation. Réessayez dans 10 minutes.")
}
