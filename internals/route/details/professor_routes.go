package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	professorRoute "erpr_backend/internals/features/professors/route"
)

func ProfessorPublicRoutes(public fiber.Router, db *gorm.DB) {
	professorRoute.ProfessorPublicRoutes(public, db)
}

func ProfessorAdminRoutes(admin fiber.Router, db *gorm.DB) {
	professorRoute.ProfessorAdminRoutes(admin, db)
}
