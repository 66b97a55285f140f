//go:build integration

package route

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/notifications/email"
	userModel "erpr_backend/internals/features/users/user/model"
	"erpr_backend/internals/testutil/testdb"
)

func TestHomeworkRoutesAgainstPostgres(t *testing.T) {
	db := testdb.Start(t)
	mailer := email.NewConsoleMailer()

	admin := testdb.Student(t, db, func(u *userModel.UserModel) { u.Role = constants.RoleAdmin })
	student := testdb.Student(t, db, testdb.Trial(time.Now().Add(72*time.Hour)))

	adminApp := testdb.App()
	HomeworkAdminRoutes(adminApp.Group("/a", testdb.AsUser(admin)), db, mailer)
	HomeworkGradingRoutes(adminApp.Group("/p", testdb.AsUser(admin)), db, mailer)

	studentApp := testdb.App()
	HomeworkUserRoutes(studentApp.Group("/u", testdb.AsUser(student)), db, mailer)

	status, body := testdb.Call(t, adminApp, "POST", "/a/homeworks/erpr", fiber.Map{"chapter": 1, "title": "Alphabet"})
	require.Equal(t, fiber.StatusCreated, status, body)
	openID := body["data"].(map[string]any)["id"].(string)

	status, body = testdb.Call(t, adminApp, "POST", "/a/homeworks/erpr", fiber.Map{"chapter": 9, "title": "Madd"})
	require.Equal(t, fiber.StatusCreated, status, body)
	lockedID := body["data"].(map[string]any)["id"].(string)

	status, _ = testdb.Call(t, adminApp, "POST", "/a/homeworks/latin", fiber.Map{"chapter": 1, "title": "x"})
	assert.Equal(t, fiber.StatusNotFound, status)

	// the list shows both, the second one locked for a trial student
	status, body = testdb.Call(t, studentApp, "GET", "/u/homeworks/erpr", nil)
	require.Equal(t, fiber.StatusOK, status)
	items := body["data"].([]any)
	require.Len(t, items, 2)
	locked := map[string]bool{}
	for _, it := range items {
		m := it.(map[string]any)
		locked[m["id"].(string)] = m["locked"].(bool)
	}
	assert.False(t, locked[openID])
	assert.True(t, locked[lockedID])

	status, _ = testdb.Call(t, studentApp, "GET", "/u/homeworks/erpr/"+lockedID, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = testdb.Call(t, studentApp, "POST", "/u/homeworks/erpr/"+openID+"/send", fiber.Map{"content": "réponse"})
	require.Equal(t, fiber.StatusCreated, status, body)
	sendID := body["data"].(map[string]any)["id"].(string)

	status, body = testdb.Call(t, studentApp, "POST", "/u/homeworks/erpr/"+openID+"/send", fiber.Map{"content": "bis"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Devoir déjà envoyé", body["message"])

	status, _ = testdb.Call(t, studentApp, "POST", "/u/homeworks/erpr/"+lockedID+"/send", fiber.Map{"content": "x"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = testdb.Call(t, adminApp, "PATCH", "/p/homework-sends/erpr/"+sendID, fiber.Map{"status": "corrected"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status, "corrected needs a grade")

	status, _ = testdb.Call(t, adminApp, "PATCH", "/p/homework-sends/erpr/"+sendID, fiber.Map{"status": "corrected", "grade": 21})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, body = testdb.Call(t, adminApp, "PATCH", "/p/homework-sends/erpr/"+sendID, fiber.Map{"status": "to_redo"})
	require.Equal(t, fiber.StatusOK, status, body)

	status, body = testdb.Call(t, studentApp, "POST", "/u/homeworks/erpr/"+openID+"/send", fiber.Map{"content": "ter"})
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "pending", body["data"].(map[string]any)["status"])

	status, body = testdb.Call(t, studentApp, "GET", "/u/homeworks/erpr/sends", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)

	// tajwid is subscribers only
	status, _ = testdb.Call(t, studentApp, "GET", "/u/homeworks/tajwid/sends", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}
