package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/features/cron/service"
	helper "erpr_backend/internals/helpers"
)

// newApp mounts the controller behind a short request deadline, like DBMiddleware does.
func newApp(jobs *service.Jobs, deadline time.Duration) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), deadline)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	ctl := NewCronController(jobs)
	app.Get("/cron", ctl.List)
	app.Post("/cron/all", ctl.RunAll)
	app.Post("/cron/:job", ctl.Run)
	return app
}

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&m))
	return m
}

func TestJobsOutliveTheRequestDeadline(t *testing.T) {
	jobs := service.NewJobs(nil, nil)
	var remaining time.Duration
	jobs.Register(service.Job{Name: "slow", Run: func(ctx context.Context, _ time.Time) (int, int, error) {
		if dl, ok := ctx.Deadline(); ok {
			remaining = time.Until(dl)
		}
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		}
		return 3, 0, ctx.Err()
	}})

	resp, err := newApp(jobs, 5*time.Millisecond).Test(httptest.NewRequest("POST", "/cron/slow", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Greater(t, remaining, time.Minute)

	body := decode(t, resp.Body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "slow", data["job"])
	assert.Equal(t, float64(3), data["processed"])
}

func TestRunUnknownJobIs404(t *testing.T) {
	resp, err := newApp(service.NewJobs(nil, nil), time.Second).Test(httptest.NewRequest("POST", "/cron/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListShowsSchedules(t *testing.T) {
	resp, err := newApp(service.NewJobs(nil, nil), time.Second).Test(httptest.NewRequest("GET", "/cron", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	items := decode(t, resp.Body)["data"].([]any)
	require.Len(t, items, 7)
	first := items[0].(map[string]any)
	assert.Equal(t, service.JobProgressSnapshots, first["name"])
	assert.Equal(t, "0 2 * * *", first["schedule"])
}
