package controller

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"erpr_backend/internals/features/cron/service"
	helper "erpr_backend/internals/helpers"
)

type CronController struct {
	Jobs *service.Jobs
}

func NewCronController(jobs *service.Jobs) *CronController {
	return &CronController{Jobs: jobs}
}

// jobContext drops the request deadline and cancellation: a run keeps going
// for up to JobTimeout even if the caller hangs up.
func jobContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.UserContext()), service.JobTimeout)
}

// POST /api/cron/:job
func (cc *CronController) Run(c *fiber.Ctx) error {
	name := c.Params("job")
	ctx, cancel := jobContext(c)
	defer cancel()
	res, err := cc.Jobs.Run(ctx, name)
	if err != nil {
		if errors.Is(err, service.ErrUnknownJob) {
			return fiber.NewError(fiber.StatusNotFound, "Tâche inconnue")
		}
		return helper.Internal(err, "cron: "+name)
	}
	return helper.JsonOK(c, "Tâche exécutée", res)
}

// POST /api/cron/all runs every job in order and reports each one.
func (cc *CronController) RunAll(c *fiber.Ctx) error {
	results := make([]service.Result, 0, len(cc.Jobs.All()))
	failures := 0
	for _, job := range cc.Jobs.All() {
		ctx, cancel := jobContext(c)
		res, err := cc.Jobs.Run(ctx, job.Name)
		cancel()
		if err != nil {
			failures++
		}
		results = append(results, res)
	}
	return helper.JsonOK(c, "Tâches exécutées", fiber.Map{"results": results, "errors": failures})
}

// GET /api/cron
func (cc *CronController) List(c *fiber.Ctx) error {
	type item struct {
		Name     string `json:"name"`
		Schedule string `json:"schedule"`
	}
	out := make([]item, 0, len(cc.Jobs.All()))
	for _, j := range cc.Jobs.All() {
		out = append(out, item{Name: j.Name, Schedule: j.Schedule})
	}
	return helper.JsonOK(c, "Tâches", out)
}
