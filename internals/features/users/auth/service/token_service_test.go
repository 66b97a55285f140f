package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	userModel "erpr_backend/internals/features/users/user/model"
)

func withSecret(t *testing.T) {
	t.Helper()
	old := configs.JWTSecret
	configs.JWTSecret = "test-secret"
	t.Cleanup(func() { configs.JWTSecret = old })
}

func TestIssueAndParseAccessToken(t *testing.T) {
	withSecret(t)
	u := &userModel.UserModel{ID: uuid.New(), Role: constants.RoleStudent, UserName: "amina"}

	raw, exp, err := IssueAccessToken(u, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(configs.JWTTTL), exp, 2*time.Second)

	claims, id, err := ParseAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, "amina", claims.UserName)
	assert.Equal(t, constants.RoleStudent, claims.Role)
	assert.WithinDuration(t, exp, TokenExpiry(raw, time.Time{}), time.Second)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	withSecret(t)
	u := &userModel.UserModel{ID: uuid.New(), Role: constants.RoleStudent}
	raw, _, err := IssueAccessToken(u, time.Now().Add(-configs.JWTTTL-time.Minute))
	require.NoError(t, err)

	_, _, err = ParseAccessToken(raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	withSecret(t)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID:           uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, _, err = ParseAccessToken(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessTokenRejectsNoneAlg(t *testing.T) {
	withSecret(t)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{
		UserID:           uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = ParseAccessToken(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessTokenRequiresExp(t *testing.T) {
	withSecret(t)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{UserID: uuid.NewString()}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, _, err = ParseAccessToken(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
