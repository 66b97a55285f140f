package model

import (
	"time"

	"github.com/google/uuid"

	"erpr_backend/internals/constants"
)

type ChapterVideoModel struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Chapter         int       `gorm:"column:chapter;not null" json:"chapter"`
	Title           string    `gorm:"column:title;size:200;not null" json:"title"`
	VideoURL        string    `gorm:"column:video_url;not null" json:"video_url"`
	ProviderVideoID *string   `gorm:"column:provider_video_id;size:100" json:"provider_video_id,omitempty"`
	ThumbnailURL    *string   `gorm:"column:thumbnail_url" json:"thumbnail_url,omitempty"`
	DurationSeconds int       `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func Table(module string) string {
	if module == constants.ModuleTajwid {
		return "tajwid_chapter_videos"
	}
	return "chapter_videos"
}
