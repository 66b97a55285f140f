package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"erpr_backend/internals/configs"
	userModel "erpr_backend/internals/features/users/user/model"
)

var (
	ErrTokenInvalid = errors.New("token invalide")
	ErrTokenExpired = errors.New("token expiré")
)

// AccessClaims is the payload of the access_token cookie.
type AccessClaims struct {
	UserID   string `json:"id"`
	Role     string `json:"role"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

func IssueAccessToken(u *userModel.UserModel, now time.Time) (string, time.Time, error) {
	if configs.JWTSecret == "" {
		return "", time.Time{}, configs.ErrMissingJWTSecret
	}
	exp := now.Add(configs.JWTTTL)
	claims := AccessClaims{
		UserID:   u.ID.String(),
		Role:     u.Role,
		UserName: u.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccessToken accepts HMAC-signed tokens only and requires exp.
func ParseAccessToken(raw string) (*AccessClaims, uuid.UUID, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(configs.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, uuid.Nil, ErrTokenExpired
		}
		return nil, uuid.Nil, ErrTokenInvalid
	}
	if claims.ExpiresAt == nil {
		return nil, uuid.Nil, ErrTokenInvalid
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil || id == uuid.Nil {
		return nil, uuid.Nil, ErrTokenInvalid
	}
	return claims, id, nil
}

// TokenExpiry reads exp without verifying; used to size the blacklist entry on logout.
func TokenExpiry(raw string, fallback time.Time) time.Time {
	claims := &AccessClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err != nil || claims.ExpiresAt == nil {
		return fallback
	}
	return claims.ExpiresAt.Time
}
