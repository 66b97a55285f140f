package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	videoController "erpr_backend/internals/features/videos/controller"
	authMiddleware "erpr_backend/internals/middlewares/auth"
)

// VideoAdminRoutes: /api/a/videos/:module
func VideoAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := videoController.NewVideoController(db)

	g := r.Group("/videos/:module", authMiddleware.ResolveModule())
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}

// VideoUserRoutes: /api/u/videos/:module
func VideoUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := videoController.NewVideoController(db)

	g := r.Group("/videos/:module", authMiddleware.ResolveModule())
	g.Get("/", ctl.StudentList)
	g.Get("/chapters/:chapter", ctl.StudentGet)
}
