package professors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gorm.io/gorm"

	professorDTO "erpr_backend/internals/features/professors/dto"
	"erpr_backend/internals/features/professors/model"
	userModel "erpr_backend/internals/features/users/user/model"
	"erpr_backend/internals/logging"
)

type ProfessorSeed struct {
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Bio      string   `json:"bio"`
	Modules  []string `json:"modules"`
}

func SeedProfessorsFromJSON(db *gorm.DB, fsys fs.FS, filePath string) error {
	log := logging.L()
	log.Infof("📥 lecture de %s", filePath)

	file, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return fmt.Errorf("seed professors: %w", err)
	}
	var inputs []ProfessorSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("seed professors: %w", err)
	}

	created := 0
	for _, data := range inputs {
		email := strings.ToLower(strings.TrimSpace(data.Email))
		var n int64
		if err := db.Model(&model.ProfessorModel{}).Where("lower(email) = ?", email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}

		bio := data.Bio
		p := model.ProfessorModel{
			FullName: data.FullName,
			Email:    email,
			Bio:      &bio,
			Modules:  professorDTO.NormalizeModules(data.Modules),
			IsActive: true,
		}
		var account userModel.UserModel
		err := db.Where("lower(email) = ?", email).First(&account).Error
		switch {
		case err == nil:
			p.UserID = &account.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("seed professors: insert %s: %w", email, err)
		}
		created++
	}
	log.Infof("✅ %d professeur(s) créé(s)", created)
	return nil
}
