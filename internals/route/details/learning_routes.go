package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	homeworkRoute "erpr_backend/internals/features/homeworks/route"
	"erpr_backend/internals/features/notifications/email"
	sessionRoute "erpr_backend/internals/features/sessions/route"
	videoRoute "erpr_backend/internals/features/videos/route"
)

// Sessions, homework and chapter videos.

func LearningUserRoutes(user fiber.Router, db *gorm.DB, mailer email.Mailer) {
	sessionRoute.SessionUserRoutes(user, db, mailer)
	homeworkRoute.HomeworkUserRoutes(user, db, mailer)
	videoRoute.VideoUserRoutes(user, db)
}

func LearningProfessorRoutes(professor fiber.Router, db *gorm.DB, mailer email.Mailer) {
	sessionRoute.SessionProfessorRoutes(professor, db, mailer)
	homeworkRoute.HomeworkGradingRoutes(professor, db, mailer)
}

func LearningAdminRoutes(admin fiber.Router, db *gorm.DB, mailer email.Mailer) {
	sessionRoute.SessionAdminRoutes(admin, db, mailer)
	homeworkRoute.HomeworkAdminRoutes(admin, db, mailer)
	videoRoute.VideoAdminRoutes(admin, db)
}
