//go:build integration

package route

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/constants"
	userModel "erpr_backend/internals/features/users/user/model"
	"erpr_backend/internals/features/videos/model"
	"erpr_backend/internals/testutil/testdb"
)

func TestStudentVideosAgainstPostgres(t *testing.T) {
	db := testdb.Start(t)
	for _, v := range []model.ChapterVideoModel{
		{Chapter: 1, Title: "Introduction", VideoURL: "https://videos.example.com/erpr/1.mp4", DurationSeconds: 420},
		{Chapter: 5, Title: "Les voyelles longues", VideoURL: "https://videos.example.com/erpr/5.mp4", DurationSeconds: 610},
	} {
		require.NoError(t, db.Table(model.Table(constants.ModuleErpr)).Create(&v).Error)
	}

	mount := func(u *userModel.UserModel) *fiber.App {
		app := testdb.App()
		VideoUserRoutes(app.Group("/u", testdb.AsUser(u)), db)
		return app
	}

	trial := mount(testdb.Student(t, db, testdb.Trial(time.Now().Add(72*time.Hour))))

	t.Run("catalogue hides the link of locked chapters", func(t *testing.T) {
		status, body := testdb.Call(t, trial, "GET", "/u/videos/erpr", nil)
		require.Equal(t, fiber.StatusOK, status)
		items := body["data"].([]any)
		require.Len(t, items, 30)

		first := items[0].(map[string]any)
		assert.Equal(t, false, first["locked"])
		assert.Equal(t, "https://videos.example.com/erpr/1.mp4", first["video_url"])

		fifth := items[4].(map[string]any)
		assert.Equal(t, true, fifth["locked"])
		assert.Equal(t, true, fifth["available"])
		assert.Equal(t, "Les voyelles longues", fifth["title"])
		assert.NotContains(t, fifth, "video_url")

		second := items[1].(map[string]any)
		assert.Equal(t, false, second["available"])
	})

	t.Run("chapter access", func(t *testing.T) {
		status, body := testdb.Call(t, trial, "GET", "/u/videos/erpr/chapters/1", nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "https://videos.example.com/erpr/1.mp4", body["data"].(map[string]any)["video_url"])

		status, body = testdb.Call(t, trial, "GET", "/u/videos/erpr/chapters/5", nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, constants.MsgChapterLocked, body["message"])

		status, _ = testdb.Call(t, trial, "GET", "/u/videos/erpr/chapters/2", nil)
		assert.Equal(t, fiber.StatusNotFound, status, "open chapter without a video")

		status, _ = testdb.Call(t, trial, "GET", "/u/videos/erpr/chapters/99", nil)
		assert.Equal(t, fiber.StatusNotFound, status)

		status, _ = testdb.Call(t, trial, "GET", "/u/videos/latin/chapters/1", nil)
		assert.Equal(t, fiber.StatusNotFound, status)
	})

	t.Run("subscribers open every chapter of their module", func(t *testing.T) {
		sub := mount(testdb.Student(t, db, testdb.Subscribed(constants.ModuleErpr, time.Now().AddDate(0, 1, 0))))

		status, body := testdb.Call(t, sub, "GET", "/u/videos/erpr/chapters/5", nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "https://videos.example.com/erpr/5.mp4", body["data"].(map[string]any)["video_url"])

		status, _ = testdb.Call(t, sub, "GET", "/u/videos/tajwid/chapters/1", nil)
		assert.Equal(t, fiber.StatusForbidden, status)
	})
}
