package details

import (
	"github.com/gofiber/fiber/v2"

	cronRoute "erpr_backend/internals/features/cron/route"
	cronService "erpr_backend/internals/features/cron/service"
)

func CronRoutes(api fiber.Router, jobs *cronService.Jobs) {
	cronRoute.CronRoutes(api, jobs)
}
