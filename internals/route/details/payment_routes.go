package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/features/notifications/email"
	paymentRoute "erpr_backend/internals/features/payments/route"
	"erpr_backend/internals/features/payments/service"
)

func PaymentWebhookRoutes(r fiber.Router, db *gorm.DB, gw service.Gateway, mailer email.Mailer) {
	paymentRoute.PaymentWebhookRoutes(r, db, gw, mailer)
}

func PaymentUserRoutes(user fiber.Router, db *gorm.DB, gw service.Gateway, mailer email.Mailer) {
	paymentRoute.PaymentUserRoutes(user, db, gw, mailer)
}

func PaymentAdminRoutes(admin fiber.Router, db *gorm.DB, gw service.Gateway, mailer email.Mailer) {
	paymentRoute.PaymentAdminRoutes(admin, db, gw, mailer)
}
