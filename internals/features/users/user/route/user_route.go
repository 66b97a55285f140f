package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "erpr_backend/internals/features/users/user/controller"
	helper "erpr_backend/internals/helpers"
)

// UserRoutes: /api/u (authenticated)
func UserRoutes(r fiber.Router, db *gorm.DB, storage helper.Storage) {
	ctl := userController.NewUserController(db, storage)

	r.Get("/me", ctl.Me)
	r.Patch("/me", ctl.UpdateMe)
	r.Post("/me/avatar", ctl.UploadAvatar)
	r.Get("/subscription", ctl.Subscription)
}

// UserAdminRoutes: /api/a (admin only)
func UserAdminRoutes(r fiber.Router, db *gorm.DB, storage helper.Storage) {
	ctl := userController.NewUserController(db, storage)

	users := r.Group("/users")
	users.Get("/", ctl.List)
	users.Get("/export", ctl.Export)
	users.Get("/:id", ctl.Get)
	users.Patch("/:id", ctl.Update)
	users.Delete("/:id", ctl.Delete)
}
