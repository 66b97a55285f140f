//go:build integration

package service_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/notifications/email"
	"erpr_backend/internals/features/users/auth/dto"
	authHelper "erpr_backend/internals/features/users/auth/helper"
	authModel "erpr_backend/internals/features/users/auth/model"
	"erpr_backend/internals/features/users/auth/service"
	"erpr_backend/internals/testutil/testdb"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	return fe.Code
}

func TestRegisterAgainstPostgres(t *testing.T) {
	db := testdb.Start(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)

	mailer := email.NewConsoleMailer()
	svc := service.NewAuthService(db, mailer)
	svc.Now = func() time.Time { return now }

	u, err := svc.Register(ctx, dto.RegisterRequest{
		UserName: "yasmine", Email: " Yasmine@Example.com ", Password: "motdepasse1", FullName: "Yasmine B",
	})
	require.NoError(t, err)
	assert.Equal(t, "yasmine@example.com", u.Email)
	assert.Equal(t, constants.RoleStudent, u.Role)
	assert.Equal(t, constants.SubscriptionTrial, u.SubscriptionStatus)
	require.NotNil(t, u.TrialStartedAt)
	require.NotNil(t, u.TrialEndsAt)
	assert.True(t, now.Equal(*u.TrialStartedAt))
	assert.True(t, now.AddDate(0, 0, configs.FreeTrialDays).Equal(*u.TrialEndsAt))
	require.Len(t, mailer.Messages(), 1)
	assert.Equal(t, email.TplWelcome, mailer.Messages()[0].Template)

	stored := testdb.Reload(t, db, u.ID)
	require.NotNil(t, stored.Password)
	assert.NoError(t, authHelper.CheckPasswordHash(*stored.Password, "motdepasse1"))

	_, err = svc.Register(ctx, dto.RegisterRequest{
		UserName: "autre", Email: "YASMINE@example.com", Password: "motdepasse1", FullName: "Autre",
	})
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err), "email is case-insensitive")

	_, err = svc.Register(ctx, dto.RegisterRequest{
		UserName: "Yasmine", Email: "autre@example.com", Password: "motdepasse1", FullName: "Autre",
	})
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err), "user_name is taken")

	logged, err := svc.Login(ctx, dto.LoginRequest{Identifier: "yasmine", Password: "motdepasse1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	_, err = svc.Login(ctx, dto.LoginRequest{Identifier: "yasmine@example.com", Password: "mauvais123"})
	assert.Equal(t, fiber.StatusUnauthorized, statusOf(t, err))
}

var tokenInLink = regexp.MustCompile(`token=([0-9a-f]{64})`)

func TestPasswordResetAgainstPostgres(t *testing.T) {
	db := testdb.Start(t)
	ctx := context.Background()
	now := time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC)

	mailer := email.NewConsoleMailer()
	svc := service.NewAuthService(db, mailer)
	svc.Now = func() time.Time { return now }

	u := testdb.Student(t, db, nil)

	require.NoError(t, svc.ForgotPassword(ctx, "inconnu@example.com"))
	assert.Empty(t, mailer.Messages(), "unknown addresses get no email")

	require.NoError(t, svc.ForgotPassword(ctx, u.Email))
	require.Len(t, mailer.Messages(), 1)
	m := tokenInLink.FindStringSubmatch(mailer.Messages()[0].Text)
	require.Len(t, m, 2)
	raw := m[1]

	var rt authModel.PasswordResetToken
	require.NoError(t, db.First(&rt, "user_id = ?", u.ID).Error)
	assert.Equal(t, authHelper.SHA256Hex(raw), rt.TokenHash, "only the hash is stored")
	assert.True(t, now.Add(time.Hour).Equal(rt.ExpiresAt))

	require.NoError(t, svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: raw, NewPassword: "nouveau123"}))
	stored := testdb.Reload(t, db, u.ID)
	require.NotNil(t, stored.Password)
	assert.NoError(t, authHelper.CheckPasswordHash(*stored.Password, "nouveau123"))

	err := svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: raw, NewPassword: "encoreun123"})
	assert.Equal(t, fiber.StatusBadRequest, statusOf(t, err), "a used token is rejected")

	expired := authModel.PasswordResetToken{
		UserID:    u.ID,
		TokenHash: authHelper.SHA256Hex("perime"),
		ExpiresAt: now.Add(-time.Minute),
	}
	require.NoError(t, db.Create(&expired).Error)
	err = svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: "perime", NewPassword: "encoreun123"})
	assert.Equal(t, fiber.StatusBadRequest, statusOf(t, err), "an expired token is rejected")

	err = svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: "inexistant", NewPassword: "encoreun123"})
	assert.Equal(t, fiber.StatusBadRequest, statusOf(t, err))

	stored = testdb.Reload(t, db, u.ID)
	assert.NoError(t, authHelper.CheckPasswordHash(*stored.Password, "nouveau123"))
}
