package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	homeworkController "erpr_backend/internals/features/homeworks/controller"
	"erpr_backend/internals/features/notifications/email"
	authMiddleware "erpr_backend/internals/middlewares/auth"
)

// HomeworkAdminRoutes: /api/a/homeworks/:module
func HomeworkAdminRoutes(r fiber.Router, db *gorm.DB, mailer email.Mailer) {
	ctl := homeworkController.NewHomeworkController(db, mailer)

	g := r.Group("/homeworks/:module", authMiddleware.ResolveModule())
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}

// HomeworkUserRoutes: /api/u/homeworks/:module
// The list stays reachable without access so locked items can be shown.
func HomeworkUserRoutes(r fiber.Router, db *gorm.DB, mailer email.Mailer) {
	ctl := homeworkController.NewHomeworkController(db, mailer)

	g := r.Group("/homeworks/:module", authMiddleware.ResolveModule())
	g.Get("/", ctl.StudentList)
	g.Get("/sends", authMiddleware.RequireModule(), ctl.MySends)
	g.Get("/:id", authMiddleware.RequireModule(), ctl.StudentGet)
	g.Post("/:id/send", authMiddleware.RequireModule(), ctl.Send)
}

// HomeworkGradingRoutes: /api/p/homework-sends/:module
func HomeworkGradingRoutes(r fiber.Router, db *gorm.DB, mailer email.Mailer) {
	ctl := homeworkController.NewHomeworkController(db, mailer)

	g := r.Group("/homework-sends/:module", authMiddleware.ResolveModule())
	g.Get("/", ctl.ListSends)
	g.Patch("/:id", ctl.Grade)
}
