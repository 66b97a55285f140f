package route

import (
	"github.com/gofiber/fiber/v2"

	"erpr_backend/internals/features/cron/controller"
	"erpr_backend/internals/features/cron/service"
	authMiddleware "erpr_backend/internals/middlewares/auth"
)

// CronRoutes: /api/cron, guarded by the shared cron secret.
func CronRoutes(r fiber.Router, jobs *service.Jobs) {
	ctl := controller.NewCronController(jobs)

	g := r.Group("/cron", authMiddleware.CronSecret())
	g.Get("/", ctl.List)
	g.Post("/all", ctl.RunAll)
	g.Post("/:job", ctl.Run)
}
