package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"erpr_backend/internals/constants"
)

// UserModel maps the users table. Progress arrays are stored as postgres arrays.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName  string    `gorm:"column:user_name;size:50;not null" json:"user_name"`
	Email     string    `gorm:"column:email;size:255;not null" json:"email"`
	Password  *string   `gorm:"column:password" json:"-"`
	GoogleID  *string   `gorm:"column:google_id;size:255" json:"-"`
	FullName  string    `gorm:"column:full_name;size:100;not null;default:''" json:"full_name"`
	Role      string    `gorm:"column:role;type:varchar(20);not null;default:'student'" json:"role"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	AvatarURL *string   `gorm:"column:avatar_url" json:"avatar_url,omitempty"`

	ErprCompletedChapters   pq.Int64Array   `gorm:"column:erpr_completed_chapters;type:integer[];not null;default:'{}'" json:"erpr_completed_chapters"`
	TajwidCompletedChapters pq.Int64Array   `gorm:"column:tajwid_completed_chapters;type:integer[];not null;default:'{}'" json:"tajwid_completed_chapters"`
	ErprDailyProgress       pq.Float64Array `gorm:"column:erpr_daily_progress;type:float8[];not null;default:'{}'" json:"-"`
	ErprWeeklyProgress      pq.Float64Array `gorm:"column:erpr_weekly_progress;type:float8[];not null;default:'{}'" json:"-"`
	TajwidDailyProgress     pq.Float64Array `gorm:"column:tajwid_daily_progress;type:float8[];not null;default:'{}'" json:"-"`
	TajwidWeeklyProgress    pq.Float64Array `gorm:"column:tajwid_weekly_progress;type:float8[];not null;default:'{}'" json:"-"`
	StudyTimeSeconds        int64           `gorm:"column:study_time_seconds;not null;default:0" json:"study_time_seconds"`
	LastStudyAt             *time.Time      `gorm:"column:last_study_at" json:"last_study_at,omitempty"`
	ProgressSnapshotOn      *time.Time      `gorm:"column:progress_snapshot_on;type:date" json:"-"`

	TrialStartedAt      *time.Time `gorm:"column:trial_started_at" json:"trial_started_at,omitempty"`
	TrialEndsAt         *time.Time `gorm:"column:trial_ends_at" json:"trial_ends_at,omitempty"`
	TrialReminderSentAt *time.Time `gorm:"column:trial_reminder_sent_at" json:"-"`
	SubscriptionStatus  string     `gorm:"column:subscription_status;type:varchar(20);not null;default:'none'" json:"subscription_status"`
	SubscriptionModule  *string    `gorm:"column:subscription_module;type:varchar(10)" json:"subscription_module,omitempty"`
	SubscriptionPlan    *string    `gorm:"column:subscription_plan;type:varchar(10)" json:"subscription_plan,omitempty"`
	SubscriptionEndsAt  *time.Time `gorm:"column:subscription_ends_at" json:"subscription_ends_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) CompletedChapters(module string) pq.Int64Array {
	if module == constants.ModuleTajwid {
		return u.TajwidCompletedChapters
	}
	return u.ErprCompletedChapters
}

func (u *UserModel) DailyProgress(module string) pq.Float64Array {
	if module == constants.ModuleTajwid {
		return u.TajwidDailyProgress
	}
	return u.ErprDailyProgress
}

func (u *UserModel) WeeklyProgress(module string) pq.Float64Array {
	if module == constants.ModuleTajwid {
		return u.TajwidWeeklyProgress
	}
	return u.ErprWeeklyProgress
}

func (u *UserModel) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

func (u *UserModel) IsStaff() bool {
	return u.Role == constants.RoleAdmin || u.Role == constants.RoleProfessor
}

// ModuleColumn returns the column prefix ("erpr" / "tajwid") for raw updates.
func ModuleColumn(module, suffix string) string {
	if module == constants.ModuleTajwid {
		return "tajwid_" + suffix
	}
	return "erpr_" + suffix
}
