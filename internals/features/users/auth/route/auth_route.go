package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/features/notifications/email"
	"erpr_backend/internals/features/users/auth/controller"
	rateLimiter "erpr_backend/internals/middlewares"
)

// AuthRoutes mounts the public /api/auth endpoints.
func AuthRoutes(app fiber.Router, db *gorm.DB, mailer email.Mailer) {
	authController := controller.NewAuthController(db, mailer)

	auth := app.Group("/auth")
	auth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
	auth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	auth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)
	auth.Post("/logout", authController.Logout)
	auth.Post("/forgot-password", rateLimiter.ForgotPasswordRateLimiter(), authController.ForgotPassword)
	auth.Post("/reset-password", rateLimiter.LoginRateLimiter(), authController.ResetPassword)
}

// AuthUserRoutes mounts endpoints that need a logged-in user (/api/u/auth).
func AuthUserRoutes(r fiber.Router, db *gorm.DB, mailer email.Mailer) {
	authController := controller.NewAuthController(db, mailer)
	r.Post("/auth/change-password", authController.ChangePassword)
}
