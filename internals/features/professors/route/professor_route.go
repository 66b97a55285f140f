package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	professorController "erpr_backend/internals/features/professors/controller"
)

// ProfessorAdminRoutes: /api/a/professors
func ProfessorAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := professorController.NewProfessorController(db)

	g := r.Group("/professors")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}

// ProfessorPublicRoutes: /api/public/professors
func ProfessorPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := professorController.NewProfessorController(db)
	r.Get("/professors", ctl.PublicList)
}
