package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/features/notifications/email"
	authRoute "erpr_backend/internals/features/users/auth/route"
)

func AuthRoutes(api fiber.Router, db *gorm.DB, mailer email.Mailer) {
	authRoute.AuthRoutes(api, db, mailer)
}
