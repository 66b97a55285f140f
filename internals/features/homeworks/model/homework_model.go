package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"erpr_backend/internals/constants"
)

const (
	SendPending   = "pending"
	SendCorrected = "corrected"
	SendToRedo    = "to_redo"
)

// HomeworkModel has no TableName: ERPR and Tajwid share the shape and
// queries pick the table with Tables(module).
type HomeworkModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Chapter       int            `gorm:"column:chapter;not null" json:"chapter"`
	Title         string         `gorm:"column:title;size:200;not null" json:"title"`
	Instructions  *string        `gorm:"column:instructions" json:"instructions,omitempty"`
	AttachmentURL *string        `gorm:"column:attachment_url" json:"attachment_url,omitempty"`
	IsPublished   bool           `gorm:"column:is_published;not null;default:true" json:"is_published"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
	Kind string `json:"kind"`
}

type HomeworkSendModel struct {
	ID          uuid.UUID                       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	HomeworkID  uuid.UUID                       `gorm:"column:homework_id;type:uuid;not null" json:"homework_id"`
	UserID      uuid.UUID                       `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Content     string                          `gorm:"column:content;not null;default:''" json:"content"`
	Attachments datatypes.JSONSlice[Attachment] `gorm:"column:attachments;type:jsonb;not null;default:'[]'" json:"attachments"`
	AudioURL    *string                         `gorm:"column:audio_url" json:"audio_url,omitempty"`
	Status      string                          `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	Grade       *int                            `gorm:"column:grade" json:"grade,omitempty"`
	Feedback    *string                         `gorm:"column:feedback" json:"feedback,omitempty"`
	CorrectedBy *uuid.UUID                      `gorm:"column:corrected_by;type:uuid" json:"corrected_by,omitempty"`
	CorrectedAt *time.Time                      `gorm:"column:corrected_at" json:"corrected_at,omitempty"`
	CreatedAt   time.Time                       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Tables returns the homework and send tables of a content module.
func Tables(module string) (homeworks, sends string) {
	if module == constants.ModuleTajwid {
		return "tajwid_homeworks", "tajwid_homework_sends"
	}
	return "homeworks", "homework_sends"
}
