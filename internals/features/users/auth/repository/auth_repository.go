package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "erpr_backend/internals/features/users/auth/model"
	userModel "erpr_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

// FindUserByIdentifier matches email or user_name, case-insensitively.
func FindUserByIdentifier(db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	id := strings.ToLower(strings.TrimSpace(identifier))
	if err := db.Where("lower(email) = ? OR lower(user_name) = ?", id, id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(db *gorm.DB, googleID string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(db *gorm.DB, user *userModel.UserModel) error {
	return db.Create(user).Error
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, hash string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", hash).Error
}

func LinkGoogleID(db *gorm.DB, userID uuid.UUID, googleID string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("google_id", googleID).Error
}

// IsUserNameTaken ignores excludeID so a user can keep their own name.
func IsUserNameTaken(db *gorm.DB, userName string, excludeID *uuid.UUID) (bool, error) {
	q := db.Model(&userModel.UserModel{}).Where("lower(user_name) = ?", strings.ToLower(strings.TrimSpace(userName)))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

func IsEmailTaken(db *gorm.DB, email string) (bool, error) {
	var n int64
	err := db.Model(&userModel.UserModel{}).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error
	return n > 0, err
}

/* ====================== BLACKLIST TOKEN ====================== */

func BlacklistToken(db *gorm.DB, tokenHash string, expiresAt time.Time) error {
	return db.Exec(`
		INSERT INTO token_blacklist (token, expired_at)
		VALUES (?, ?)
		ON CONFLICT (token) DO UPDATE
		SET expired_at = EXCLUDED.expired_at,
		    deleted_at = NULL
	`, tokenHash, expiresAt.UTC()).Error
}

func IsBlacklisted(db *gorm.DB, tokenHash string) (bool, error) {
	var exists bool
	err := db.Raw(`
		SELECT EXISTS (
		  SELECT 1 FROM token_blacklist
		  WHERE token = ? AND deleted_at IS NULL AND expired_at > NOW()
		)
	`, tokenHash).Scan(&exists).Error
	return exists, err
}

func CleanupExpiredBlacklist(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("expired_at <= ?", now.UTC()).Unscoped().Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}

/* ====================== PASSWORD RESET ====================== */

func CreateResetToken(db *gorm.DB, t *authModel.PasswordResetToken) error {
	return db.Create(t).Error
}

func FindResetToken(db *gorm.DB, tokenHash string) (*authModel.PasswordResetToken, error) {
	var t authModel.PasswordResetToken
	if err := db.Where("token_hash = ?", tokenHash).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkResetTokenUsed only succeeds once per token; RowsAffected tells the caller.
func MarkResetTokenUsed(db *gorm.DB, id uuid.UUID, now time.Time) (int64, error) {
	res := db.Model(&authModel.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", now.UTC())
	return res.RowsAffected, res.Error
}
