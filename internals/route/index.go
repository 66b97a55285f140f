package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/constants"
	cronService "erpr_backend/internals/features/cron/service"
	"erpr_backend/internals/features/notifications/email"
	paymentService "erpr_backend/internals/features/payments/service"
	helper "erpr_backend/internals/helpers"
	"erpr_backend/internals/logging"
	rateLimiter "erpr_backend/internals/middlewares"
	authMiddleware "erpr_backend/internals/middlewares/auth"
	routeDetails "erpr_backend/internals/route/details"
)

var startTime time.Time

// Deps carries the shared services handed to every feature router.
type Deps struct {
	DB      *gorm.DB
	Mailer  email.Mailer
	Storage helper.Storage
	Gateway paymentService.Gateway
	Jobs    *cronService.Jobs
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	log := logging.L()

	api := app.Group("/api", rateLimiter.GlobalRateLimiter())

	// ===================== PUBLIC =====================
	log.Info("[routes] public")
	routeDetails.AuthRoutes(api, d.DB, d.Mailer)
	public := api.Group("/public")
	routeDetails.ProfessorPublicRoutes(public, d.DB)
	routeDetails.PaymentWebhookRoutes(api.Group("/payments"), d.DB, d.Gateway, d.Mailer)

	// ===================== USER =====================
	log.Info("[routes] user")
	user := api.Group("/u", authMiddleware.AuthMiddleware(d.DB))
	routeDetails.UserRoutes(user, d.DB, d.Mailer, d.Storage)
	routeDetails.LearningUserRoutes(user, d.DB, d.Mailer)
	routeDetails.PaymentUserRoutes(user, d.DB, d.Gateway, d.Mailer)

	// ===================== PROFESSOR =====================
	log.Info("[routes] professor")
	professor := api.Group("/p",
		authMiddleware.AuthMiddleware(d.DB),
		authMiddleware.OnlyRoles(constants.RoleErrorProfessor("cet espace"), constants.ProfessorAndAbove...),
	)
	routeDetails.LearningProfessorRoutes(professor, d.DB, d.Mailer)

	// ===================== ADMIN =====================
	log.Info("[routes] admin")
	admin := api.Group("/a",
		authMiddleware.AuthMiddleware(d.DB),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("cet espace"), constants.AdminOnly...),
	)
	routeDetails.UserAdminRoutes(admin, d.DB, d.Storage)
	routeDetails.ProfessorAdminRoutes(admin, d.DB)
	routeDetails.LearningAdminRoutes(admin, d.DB, d.Mailer)
	routeDetails.PaymentAdminRoutes(admin, d.DB, d.Gateway, d.Mailer)

	// ===================== CRON =====================
	log.Info("[routes] cron")
	routeDetails.CronRoutes(api, d.Jobs)
}
