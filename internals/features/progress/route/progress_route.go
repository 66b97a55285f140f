package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	progressController "erpr_backend/internals/features/progress/controller"
)

// ProgressRoutes: /api/u/progress
func ProgressRoutes(r fiber.Router, db *gorm.DB) {
	ctl := progressController.NewProgressController(db)

	g := r.Group("/progress")
	g.Get("/", ctl.GetProgress)
	g.Post("/chapters", ctl.CompleteChapter)
	g.Post("/study-time", ctl.AddStudyTime)
}
