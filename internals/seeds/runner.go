package seeds

import (
	"embed"

	"gorm.io/gorm"

	"erpr_backend/internals/logging"
	"erpr_backend/internals/seeds/professors"
	"erpr_backend/internals/seeds/users"
	"erpr_backend/internals/seeds/videos"
)

//go:embed data/*.json
var dataFS embed.FS

// RunAllSeeds loads the development data set. Rows that already exist are skipped.
func RunAllSeeds(db *gorm.DB) error {
	log := logging.L()

	//* Users (staff accounts)
	if err := users.SeedUsersFromJSON(db, dataFS, "data/users.json"); err != nil {
		return err
	}

	//* Professors, linked to the accounts above by email
	if err := professors.SeedProfessorsFromJSON(db, dataFS, "data/professors.json"); err != nil {
		return err
	}

	//* Chapter videos
	if err := videos.SeedVideosFromJSON(db, dataFS, "data/videos.json"); err != nil {
		return err
	}

	log.Info("✅ seeds terminés")
	return nil
}
