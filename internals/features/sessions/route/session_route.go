package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/features/notifications/email"
	sessionController "erpr_backend/internals/features/sessions/controller"
)

// SessionAdminRoutes: /api/a/sessions
func SessionAdminRoutes(r fiber.Router, db *gorm.DB, mailer email.Mailer) {
	ctl := sessionController.NewSessionController(db, mailer)

	g := r.Group("/sessions")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/cancel", ctl.Cancel)
}

// SessionUserRoutes: /api/u/sessions
func SessionUserRoutes(r fiber.Router, db *gorm.DB, mailer email.Mailer) {
	ctl := sessionController.NewSessionController(db, mailer)

	g := r.Group("/sessions")
	g.Get("/", ctl.MyList)
	g.Post("/:id/cancel", ctl.Cancel)
}

// SessionProfessorRoutes: /api/p/sessions
func SessionProfessorRoutes(r fiber.Router, db *gorm.DB, mailer email.Mailer) {
	ctl := sessionController.NewSessionController(db, mailer)

	g := r.Group("/sessions")
	g.Get("/", ctl.ProfessorList)
	g.Post("/:id/cancel", ctl.Cancel)
}
