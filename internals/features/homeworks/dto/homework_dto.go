package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/homeworks/model"
)

/* =======================================================
   ADMIN
   ======================================================= */

type CreateHomeworkRequest struct {
	Chapter       int     `json:"chapter" validate:"required,min=1"`
	Title         string  `json:"title" validate:"required,min=2,max=200"`
	Instructions  *string `json:"instructions" validate:"omitempty,max=10000"`
	AttachmentURL *string `json:"attachment_url" validate:"omitempty,url"`
	IsPublished   *bool   `json:"is_published"`
}

func (r *CreateHomeworkRequest) ToModel() *model.HomeworkModel {
	published := true
	if r.IsPublished != nil {
		published = *r.IsPublished
	}
	return &model.HomeworkModel{
		Chapter:       r.Chapter,
		Title:         strings.TrimSpace(r.Title),
		Instructions:  r.Instructions,
		AttachmentURL: r.AttachmentURL,
		IsPublished:   published,
	}
}

type UpdateHomeworkRequest struct {
	Chapter       *int    `json:"chapter" validate:"omitempty,min=1"`
	Title         *string `json:"title" validate:"omitempty,min=2,max=200"`
	Instructions  *string `json:"instructions" validate:"omitempty,max=10000"`
	AttachmentURL *string `json:"attachment_url" validate:"omitempty,url"`
	IsPublished   *bool   `json:"is_published"`
}

func (r *UpdateHomeworkRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.Chapter != nil {
		m["chapter"] = *r.Chapter
	}
	if r.Title != nil {
		m["title"] = strings.TrimSpace(*r.Title)
	}
	if r.Instructions != nil {
		m["instructions"] = *r.Instructions
	}
	if r.AttachmentURL != nil {
		m["attachment_url"] = *r.AttachmentURL
	}
	if r.IsPublished != nil {
		m["is_published"] = *r.IsPublished
	}
	return m
}

/* =======================================================
   STUDENT
   ======================================================= */

type AttachmentInput struct {
	URL  string `json:"url" validate:"required,url"`
	Name string `json:"name" validate:"omitempty,max=200"`
}

type SendHomeworkRequest struct {
	Content     string            `json:"content" validate:"max=20000"`
	Attachments []AttachmentInput `json:"attachments" validate:"omitempty,max=10,dive"`
	AudioURL    *string           `json:"audio_url" validate:"omitempty,url"`
}

// Empty reports a send with no content of any kind.
func (r *SendHomeworkRequest) Empty() bool {
	return strings.TrimSpace(r.Content) == "" && len(r.Attachments) == 0 && (r.AudioURL == nil || *r.AudioURL == "")
}

// BuildAttachments tags each attachment with its kind.
func (r *SendHomeworkRequest) BuildAttachments() []model.Attachment {
	out := make([]model.Attachment, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		name := strings.TrimSpace(a.Name)
		kind := constants.DetectAttachmentKind(name)
		if kind == constants.AttachmentOther {
			kind = constants.DetectAttachmentKind(a.URL)
		}
		out = append(out, model.Attachment{URL: a.URL, Name: name, Kind: kind})
	}
	return out
}

type HomeworkItem struct {
	ID            uuid.UUID  `json:"id"`
	Chapter       int        `json:"chapter"`
	Title         string     `json:"title"`
	Instructions  *string    `json:"instructions,omitempty"`
	AttachmentURL *string    `json:"attachment_url,omitempty"`
	Locked        bool       `json:"locked"`
	SendStatus    *string    `json:"send_status,omitempty"`
	Grade         *int       `json:"grade,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
}

// NewHomeworkItem hides instructions and attachment when locked.
func NewHomeworkItem(h *model.HomeworkModel, locked bool, send *model.HomeworkSendModel) HomeworkItem {
	it := HomeworkItem{ID: h.ID, Chapter: h.Chapter, Title: h.Title, Locked: locked}
	if !locked {
		it.Instructions = h.Instructions
		it.AttachmentURL = h.AttachmentURL
	}
	if send != nil {
		st := send.Status
		sent := send.UpdatedAt
		it.SendStatus = &st
		it.Grade = send.Grade
		it.SentAt = &sent
	}
	return it
}

/* =======================================================
   GRADING
   ======================================================= */

type GradeSendRequest struct {
	Status   string  `json:"status" validate:"required,oneof=corrected to_redo"`
	Grade    *int    `json:"grade" validate:"omitempty,min=0,max=20"`
	Feedback *string `json:"feedback" validate:"omitempty,max=5000"`
}

type ListSendsQuery struct {
	Status     string `query:"status" validate:"omitempty,oneof=pending corrected to_redo"`
	HomeworkID string `query:"homework_id" validate:"omitempty,uuid"`
	UserID     string `query:"user_id" validate:"omitempty,uuid"`
}

type SendResponse struct {
	model.HomeworkSendModel
	Module       string `json:"module"`
	Chapter      int    `json:"chapter,omitempty"`
	Title        string `json:"title,omitempty"`
	StudentName  string `json:"student_name,omitempty"`
	StudentEmail string `json:"student_email,omitempty"`
}
