package dto

import (
	"strings"

	"github.com/google/uuid"

	"erpr_backend/internals/features/videos/model"
)

type CreateVideoRequest struct {
	Chapter         int     `json:"chapter" validate:"required,min=1"`
	Title           string  `json:"title" validate:"required,min=2,max=200"`
	VideoURL        string  `json:"video_url" validate:"required,url"`
	ProviderVideoID *string `json:"provider_video_id" validate:"omitempty,max=100"`
	ThumbnailURL    *string `json:"thumbnail_url" validate:"omitempty,url"`
	DurationSeconds int     `json:"duration_seconds" validate:"min=0,max=86400"`
}

func (r *CreateVideoRequest) ToModel() *model.ChapterVideoModel {
	return &model.ChapterVideoModel{
		Chapter:         r.Chapter,
		Title:           strings.TrimSpace(r.Title),
		VideoURL:        strings.TrimSpace(r.VideoURL),
		ProviderVideoID: r.ProviderVideoID,
		ThumbnailURL:    r.ThumbnailURL,
		DurationSeconds: r.DurationSeconds,
	}
}

type UpdateVideoRequest struct {
	Chapter         *int    `json:"chapter" validate:"omitempty,min=1"`
	Title           *string `json:"title" validate:"omitempty,min=2,max=200"`
	VideoURL        *string `json:"video_url" validate:"omitempty,url"`
	ProviderVideoID *string `json:"provider_video_id" validate:"omitempty,max=100"`
	ThumbnailURL    *string `json:"thumbnail_url" validate:"omitempty,url"`
	DurationSeconds *int    `json:"duration_seconds" validate:"omitempty,min=0,max=86400"`
}

func (r *UpdateVideoRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.Chapter != nil {
		m["chapter"] = *r.Chapter
	}
	if r.Title != nil {
		m["title"] = strings.TrimSpace(*r.Title)
	}
	if r.VideoURL != nil {
		m["video_url"] = strings.TrimSpace(*r.VideoURL)
	}
	if r.ProviderVideoID != nil {
		m["provider_video_id"] = *r.ProviderVideoID
	}
	if r.ThumbnailURL != nil {
		m["thumbnail_url"] = *r.ThumbnailURL
	}
	if r.DurationSeconds != nil {
		m["duration_seconds"] = *r.DurationSeconds
	}
	return m
}

// ChapterItem is one chapter of the student catalogue; the video URL is
// left out when the chapter is locked.
type ChapterItem struct {
	Chapter         int        `json:"chapter"`
	Locked          bool       `json:"locked"`
	Completed       bool       `json:"completed"`
	VideoID         *uuid.UUID `json:"video_id,omitempty"`
	Title           string     `json:"title,omitempty"`
	VideoURL        *string    `json:"video_url,omitempty"`
	ThumbnailURL    *string    `json:"thumbnail_url,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	Available       bool       `json:"available"`
}

func NewChapterItem(chapter int, v *model.ChapterVideoModel, locked, completed bool) ChapterItem {
	it := ChapterItem{Chapter: chapter, Locked: locked, Completed: completed}
	if v == nil {
		return it
	}
	id := v.ID
	it.Available = true
	it.VideoID = &id
	it.Title = v.Title
	it.ThumbnailURL = v.ThumbnailURL
	it.DurationSeconds = v.DurationSeconds
	if !locked {
		url := v.VideoURL
		it.VideoURL = &url
	}
	return it
}

// Catalogue lists chapters 1..count, each with its video when one exists.
func Catalogue(count int, videos []model.ChapterVideoModel, completed []int64, locked func(chapter int) bool) []ChapterItem {
	byChapter := make(map[int]*model.ChapterVideoModel, len(videos))
	for i := range videos {
		byChapter[videos[i].Chapter] = &videos[i]
	}
	done := make(map[int64]bool, len(completed))
	for _, ch := range completed {
		done[ch] = true
	}
	out := make([]ChapterItem, 0, count)
	for ch := 1; ch <= count; ch++ {
		out = append(out, NewChapterItem(ch, byChapter[ch], locked(ch), done[int64(ch)]))
	}
	return out
}
