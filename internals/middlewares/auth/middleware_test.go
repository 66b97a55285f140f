package auth

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	userModel "erpr_backend/internals/features/users/user/model"
	helper "erpr_backend/internals/helpers"
)

func newApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
}

func ok(c *fiber.Ctx) error { return c.SendString("ok") }

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&m))
	return m
}

func withUser(u *userModel.UserModel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocUser, u)
		c.Locals(helper.LocUserRole, u.Role)
		return c.Next()
	}
}

func TestAuthMiddlewareRejectsMissingAndInvalidTokens(t *testing.T) {
	configs.JWTSecret = "test-secret"
	app := newApp()
	app.Get("/p", AuthMiddleware(nil), ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/p", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, constants.MsgUnauthorized, body["message"])
	assert.Equal(t, "UNAUTHORIZED", body["error_code"])

	req := httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Cookie", "access_token=not-a-jwt")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/p", nil)
	req.Header.Set("Authorization", "Bearer still.not.valid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOnlyRoles(t *testing.T) {
	app := newApp()
	app.Get("/admin", withUser(&userModel.UserModel{Role: constants.RoleStudent}),
		OnlyRoles(constants.RoleErrorAdmin("les utilisateurs"), constants.RoleAdmin), ok)
	app.Get("/staff", withUser(&userModel.UserModel{Role: constants.RoleProfessor}),
		OnlyRolesSlice(constants.RoleErrorProfessor("les devoirs"), constants.ProfessorAndAbove), ok)
	app.Get("/anon", OnlyRoles("", constants.RoleAdmin), ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, constants.RoleErrorAdmin("les utilisateurs"), decode(t, resp.Body)["message"])

	resp, err = app.Test(httptest.NewRequest("GET", "/staff", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/anon", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireModule(t *testing.T) {
	ends := time.Now().Add(48 * time.Hour)
	trial := &userModel.UserModel{Role: constants.RoleStudent, SubscriptionStatus: constants.SubscriptionTrial, TrialEndsAt: &ends}

	app := newApp()
	app.Get("/m/:module", withUser(trial), RequireModule(), func(c *fiber.Ctx) error {
		return c.SendString(Module(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/m/erpr", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "erpr", string(b))

	resp, err = app.Test(httptest.NewRequest("GET", "/m/tajwid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, constants.MsgSubscribersOnly, decode(t, resp.Body)["message"])

	resp, err = app.Test(httptest.NewRequest("GET", "/m/arabic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCronSecret(t *testing.T) {
	old := configs.CronSecret
	t.Cleanup(func() { configs.CronSecret = old })

	app := newApp()
	app.Post("/cron", CronSecret(), ok)

	call := func(header string) int {
		req := httptest.NewRequest("POST", "/cron", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	configs.CronSecret = ""
	assert.Equal(t, fiber.StatusUnauthorized, call("Bearer "))

	configs.CronSecret = "s3cret"
	assert.Equal(t, fiber.StatusUnauthorized, call(""))
	assert.Equal(t, fiber.StatusUnauthorized, call("Bearer wrong"))
	assert.Equal(t, fiber.StatusUnauthorized, call("s3cret"))
	assert.Equal(t, fiber.StatusOK, call("Bearer s3cret"))
}
