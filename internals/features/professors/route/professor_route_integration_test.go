//go:build integration

package route

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/constants"
	userModel "erpr_backend/internals/features/users/user/model"
	"erpr_backend/internals/testutil/testdb"
)

func TestProfessorAdminAgainstPostgres(t *testing.T) {
	db := testdb.Start(t)
	admin := testdb.Student(t, db, func(u *userModel.UserModel) { u.Role = constants.RoleAdmin })

	app := testdb.App()
	ProfessorAdminRoutes(app.Group("/a", testdb.AsUser(admin)), db)

	status, body := testdb.Call(t, app, "POST", "/a/professors", fiber.Map{
		"full_name": "Karima Haddad", "email": " Karima@Example.com", "modules": []string{"erpr"},
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	created := body["data"].(map[string]any)
	assert.Equal(t, "karima@example.com", created["email"])

	status, body = testdb.Call(t, app, "POST", "/a/professors", fiber.Map{
		"full_name": "Autre", "email": "KARIMA@example.com", "modules": []string{"tajwid"},
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Un professeur utilise déjà cet email", body["message"])

	status, _ = testdb.Call(t, app, "POST", "/a/professors", fiber.Map{
		"full_name": "Sans module", "email": "sans@example.com", "modules": []string{"latin"},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	other := testdb.Professor(t, db, constants.ModuleTajwid)
	status, _ = testdb.Call(t, app, "PATCH", "/a/professors/"+other.ID.String(), fiber.Map{"email": "karima@example.com"})
	assert.Equal(t, fiber.StatusConflict, status, "update cannot take another professor's email")

	// linking an account promotes a student to professor
	student := testdb.Student(t, db, nil)
	status, body = testdb.Call(t, app, "PATCH", "/a/professors/"+other.ID.String(), fiber.Map{"user_id": student.ID})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, constants.RoleProfessor, testdb.Reload(t, db, student.ID).Role)
}
