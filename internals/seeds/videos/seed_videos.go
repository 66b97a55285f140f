package videos

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/videos/model"
	"erpr_backend/internals/logging"
)

type VideoSeed struct {
	Module          string `json:"module"`
	Chapter         int    `json:"chapter"`
	Title           string `json:"title"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int    `json:"duration_seconds"`
}

func SeedVideosFromJSON(db *gorm.DB, fsys fs.FS, filePath string) error {
	log := logging.L()
	log.Infof("📥 lecture de %s", filePath)

	file, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return fmt.Errorf("seed videos: %w", err)
	}
	var inputs []VideoSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("seed videos: %w", err)
	}

	created := int64(0)
	for _, data := range inputs {
		if !constants.IsContentModule(data.Module) || data.Chapter < 1 || data.Chapter > configs.ChapterCount(data.Module) {
			log.Warnf("⚠️ vidéo ignorée: %s chapitre %d", data.Module, data.Chapter)
			continue
		}
		v := model.ChapterVideoModel{
			Chapter:         data.Chapter,
			Title:           data.Title,
			VideoURL:        data.VideoURL,
			DurationSeconds: data.DurationSeconds,
		}
		res := db.Table(model.Table(data.Module)).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chapter"}}, DoNothing: true}).
			Create(&v)
		if res.Error != nil {
			return fmt.Errorf("seed videos: %s/%d: %w", data.Module, data.Chapter, res.Error)
		}
		created += res.RowsAffected
	}
	log.Infof("✅ %d vidéo(s) créée(s)", created)
	return nil
}
