package model

import (
	"time"

	"github.com/google/uuid"

	professorModel "erpr_backend/internals/features/professors/model"
	userModel "erpr_backend/internals/features/users/user/model"
)

const (
	StatusScheduled = "scheduled"
	StatusCanceled  = "canceled"
	StatusCompleted = "completed"
)

type SessionModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfessorID     uuid.UUID  `gorm:"column:professor_id;type:uuid;not null" json:"professor_id"`
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Module          string     `gorm:"column:module;type:varchar(10);not null" json:"module"`
	StartsAt        time.Time  `gorm:"column:starts_at;not null" json:"starts_at"`
	DurationMinutes int        `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	Status          string     `gorm:"column:status;type:varchar(20);not null;default:'scheduled'" json:"status"`
	MeetingURL      *string    `gorm:"column:meeting_url" json:"meeting_url,omitempty"`
	Notes           *string    `gorm:"column:notes" json:"notes,omitempty"`
	ReminderSentAt  *time.Time `gorm:"column:reminder_sent_at" json:"-"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Professor    *professorModel.ProfessorModel `gorm:"foreignKey:ProfessorID" json:"-"`
	User         *userModel.UserModel           `gorm:"foreignKey:UserID" json:"-"`
	Cancellation *SessionCancellationModel      `gorm:"foreignKey:SessionID" json:"-"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

func (s *SessionModel) EndsAt() time.Time {
	return s.StartsAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

type SessionCancellationModel struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SessionID      uuid.UUID `gorm:"column:session_id;type:uuid;not null;uniqueIndex" json:"session_id"`
	CanceledBy     uuid.UUID `gorm:"column:canceled_by;type:uuid;not null" json:"canceled_by"`
	CanceledByRole string    `gorm:"column:canceled_by_role;type:varchar(20);not null" json:"canceled_by_role"`
	Reason         *string   `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SessionCancellationModel) TableName() string {
	return "session_cancellations"
}
