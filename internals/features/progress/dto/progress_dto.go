package dto

import "strings"

type CompleteChapterRequest struct {
	Module  string `json:"module" validate:"required,oneof=erpr tajwid"`
	Chapter int    `json:"chapter" validate:"required,min=1"`
}

func (r *CompleteChapterRequest) Normalize() {
	r.Module = strings.ToLower(strings.TrimSpace(r.Module))
}

type StudyTimeRequest struct {
	Seconds int `json:"seconds" validate:"required,min=1,max=14400"`
}
