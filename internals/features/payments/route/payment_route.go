package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/features/notifications/email"
	paymentController "erpr_backend/internals/features/payments/controller"
	"erpr_backend/internals/features/payments/service"
)

// PaymentWebhookRoutes: /api/payments (public, signature checked)
func PaymentWebhookRoutes(r fiber.Router, db *gorm.DB, gw service.Gateway, mailer email.Mailer) {
	ctl := paymentController.NewPaymentController(db, gw, mailer)
	r.Post("/midtrans/notification", ctl.Notification)
}

// PaymentUserRoutes: /api/u
func PaymentUserRoutes(r fiber.Router, db *gorm.DB, gw service.Gateway, mailer email.Mailer) {
	ctl := paymentController.NewPaymentController(db, gw, mailer)

	r.Post("/payments/checkout", ctl.Checkout)
	r.Get("/payments", ctl.MyPayments)
	r.Post("/subscription/cancel", ctl.CancelSubscription)
}

// PaymentAdminRoutes: /api/a/payments
func PaymentAdminRoutes(r fiber.Router, db *gorm.DB, gw service.Gateway, mailer email.Mailer) {
	ctl := paymentController.NewPaymentController(db, gw, mailer)

	g := r.Group("/payments")
	g.Get("/", ctl.List)
	g.Get("/export", ctl.Export)
}
