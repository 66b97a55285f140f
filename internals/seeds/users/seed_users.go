package users

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"gorm.io/gorm"

	"erpr_backend/internals/constants"
	authHelper "erpr_backend/internals/features/users/auth/helper"
	"erpr_backend/internals/features/users/user/model"
	"erpr_backend/internals/logging"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func SeedUsersFromJSON(db *gorm.DB, fsys fs.FS, filePath string) error {
	log := logging.L()
	log.Infof("📥 lecture de %s", filePath)

	file, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	created := 0
	for _, data := range inputs {
		email := strings.ToLower(strings.TrimSpace(data.Email))
		var n int64
		if err := db.Model(&model.UserModel{}).Where("lower(email) = ?", email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			log.Infof("ℹ️ %s existe déjà, ignoré", email)
			continue
		}
		if !constants.IsValidRole(data.Role) {
			return fmt.Errorf("seed users: rôle inconnu %q pour %s", data.Role, email)
		}

		hashed, err := authHelper.HashPassword(data.Password)
		if err != nil {
			return fmt.Errorf("seed users: hash %s: %w", email, err)
		}
		u := model.UserModel{
			UserName:           data.UserName,
			Email:              email,
			Password:           &hashed,
			FullName:           data.FullName,
			Role:               data.Role,
			IsActive:           true,
			SubscriptionStatus: constants.SubscriptionNone,
		}
		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("seed users: insert %s: %w", email, err)
		}
		created++
	}
	log.Infof("✅ %d utilisateur(s) créé(s)", created)
	return nil
}
