package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/features/notifications/email"
	progressRoute "erpr_backend/internals/features/progress/route"
	authRoute "erpr_backend/internals/features/users/auth/route"
	userRoute "erpr_backend/internals/features/users/user/route"
	helper "erpr_backend/internals/helpers"
)

// 👤 /api/u
func UserRoutes(user fiber.Router, db *gorm.DB, mailer email.Mailer, storage helper.Storage) {
	userRoute.UserRoutes(user, db, storage)
	authRoute.AuthUserRoutes(user, db, mailer)
	progressRoute.ProgressRoutes(user, db)
}

// 🔐 /api/a
func UserAdminRoutes(admin fiber.Router, db *gorm.DB, storage helper.Storage) {
	userRoute.UserAdminRoutes(admin, db, storage)
}
