//go:build integration

// Package testdb starts a throwaway postgres with the embedded migrations applied.
package testdb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"erpr_backend/internals/constants"
	database "erpr_backend/internals/databases"
	professorModel "erpr_backend/internals/features/professors/model"
	userModel "erpr_backend/internals/features/users/user/model"
	helper "erpr_backend/internals/helpers"
	authMiddleware "erpr_backend/internals/middlewares/auth"
)

// Start returns a migrated gorm handle; the container is removed with the test.
func Start(t *testing.T) *gorm.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("erpr"),
		postgres.WithUsername("erpr"),
		postgres.WithPassword("erpr"),
		tc.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = pg.Terminate(ctx)
	})

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(uri)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Student inserts an active student; mutate tweaks the row before insert.
func Student(t *testing.T, db *gorm.DB, mutate func(u *userModel.UserModel)) *userModel.UserModel {
	t.Helper()
	tag := uuid.NewString()[:8]
	u := &userModel.UserModel{
		UserName:           "eleve_" + tag,
		Email:              "eleve_" + tag + "@example.com",
		FullName:           "Élève " + tag,
		Role:               constants.RoleStudent,
		IsActive:           true,
		SubscriptionStatus: constants.SubscriptionNone,
	}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Subscribed sets an active subscription on module ending at endsAt.
func Subscribed(module string, endsAt time.Time) func(u *userModel.UserModel) {
	return func(u *userModel.UserModel) {
		plan := constants.PlanMonthly
		u.SubscriptionStatus = constants.SubscriptionActive
		u.SubscriptionModule = &module
		u.SubscriptionPlan = &plan
		u.SubscriptionEndsAt = &endsAt
	}
}

// Trial sets a trial ending at endsAt.
func Trial(endsAt time.Time) func(u *userModel.UserModel) {
	return func(u *userModel.UserModel) {
		started := endsAt.AddDate(0, 0, -7)
		u.SubscriptionStatus = constants.SubscriptionTrial
		u.TrialStartedAt = &started
		u.TrialEndsAt = &endsAt
	}
}

func Reload(t *testing.T, db *gorm.DB, id uuid.UUID) *userModel.UserModel {
	t.Helper()
	var u userModel.UserModel
	require.NoError(t, db.Unscoped().First(&u, "id = ?", id).Error)
	return &u
}

// Professor inserts an active professor teaching modules, with no login account.
func Professor(t *testing.T, db *gorm.DB, modules ...string) *professorModel.ProfessorModel {
	t.Helper()
	tag := uuid.NewString()[:8]
	p := &professorModel.ProfessorModel{
		FullName: "Professeur " + tag,
		Email:    "prof_" + tag + "@example.com",
		Modules:  pq.StringArray(modules),
		IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// App returns a fiber app with the production error handler.
func App() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
}

// AsUser stands in for AuthMiddleware and puts u in the request locals.
func AsUser(u *userModel.UserModel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(authMiddleware.LocUser, u)
		c.Locals(helper.LocUserID, u.ID.String())
		c.Locals(helper.LocUserRole, u.Role)
		c.Locals(helper.LocUserName, u.UserName)
		return c.Next()
	}
}

// Call sends body as JSON and decodes the response envelope.
func Call(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 10_000)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}
