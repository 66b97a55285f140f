package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"erpr_backend/internals/features/access"
	"erpr_backend/internals/features/users/user/model"
)

/* =======================================================
   RESPONSES
   ======================================================= */

type UserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	UserName           string     `json:"user_name"`
	Email              string     `json:"email"`
	FullName           string     `json:"full_name"`
	Role               string     `json:"role"`
	IsActive           bool       `json:"is_active"`
	AvatarURL          *string    `json:"avatar_url,omitempty"`
	HasPassword        bool       `json:"has_password"`
	GoogleLinked       bool       `json:"google_linked"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionModule *string    `json:"subscription_module,omitempty"`
	SubscriptionPlan   *string    `json:"subscription_plan,omitempty"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	StudyTimeSeconds   int64      `json:"study_time_seconds"`
	LastStudyAt        *time.Time `json:"last_study_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func FromModel(u *model.UserModel) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		UserName:           u.UserName,
		Email:              u.Email,
		FullName:           u.FullName,
		Role:               u.Role,
		IsActive:           u.IsActive,
		AvatarURL:          u.AvatarURL,
		HasPassword:        u.HasPassword(),
		GoogleLinked:       u.GoogleID != nil && *u.GoogleID != "",
		SubscriptionStatus: u.SubscriptionStatus,
		SubscriptionModule: u.SubscriptionModule,
		SubscriptionPlan:   u.SubscriptionPlan,
		SubscriptionEndsAt: u.SubscriptionEndsAt,
		TrialEndsAt:        u.TrialEndsAt,
		StudyTimeSeconds:   u.StudyTimeSeconds,
		LastStudyAt:        u.LastStudyAt,
		CreatedAt:          u.CreatedAt,
	}
}

func FromModels(us []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(us))
	for i := range us {
		out = append(out, FromModel(&us[i]))
	}
	return out
}

// MeResponse is the profile plus the access summary evaluated at request time.
type MeResponse struct {
	User   UserResponse   `json:"user"`
	Access access.Summary `json:"access"`
}

func NewMeResponse(u *model.UserModel, now time.Time) MeResponse {
	return MeResponse{User: FromModel(u), Access: access.BuildSummary(u, now)}
}

/* =======================================================
   REQUESTS
   ======================================================= */

type UpdateMeRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	UserName *string `json:"user_name" validate:"omitempty,min=3,max=50"`
}

func (r *UpdateMeRequest) Normalize() {
	if r.FullName != nil {
		v := strings.TrimSpace(*r.FullName)
		r.FullName = &v
	}
	if r.UserName != nil {
		v := strings.TrimSpace(*r.UserName)
		r.UserName = &v
	}
}

// AdminUpdateUserRequest is a partial update; omitted fields stay unchanged.
type AdminUpdateUserRequest struct {
	FullName           *string    `json:"full_name" validate:"omitempty,min=2,max=100"`
	Role               *string    `json:"role" validate:"omitempty,oneof=student professor admin"`
	IsActive           *bool      `json:"is_active"`
	SubscriptionStatus *string    `json:"subscription_status" validate:"omitempty,oneof=none trial active canceled expired"`
	SubscriptionModule *string    `json:"subscription_module" validate:"omitempty,oneof=erpr tajwid both"`
	SubscriptionPlan   *string    `json:"subscription_plan" validate:"omitempty,oneof=monthly yearly"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`
}

// Updates returns the column map for gorm's Updates.
func (r *AdminUpdateUserRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.FullName != nil {
		m["full_name"] = strings.TrimSpace(*r.FullName)
	}
	if r.Role != nil {
		m["role"] = *r.Role
	}
	if r.IsActive != nil {
		m["is_active"] = *r.IsActive
	}
	if r.SubscriptionStatus != nil {
		m["subscription_status"] = *r.SubscriptionStatus
	}
	if r.SubscriptionModule != nil {
		m["subscription_module"] = *r.SubscriptionModule
	}
	if r.SubscriptionPlan != nil {
		m["subscription_plan"] = *r.SubscriptionPlan
	}
	if r.SubscriptionEndsAt != nil {
		m["subscription_ends_at"] = r.SubscriptionEndsAt.UTC()
	}
	if r.TrialEndsAt != nil {
		m["trial_ends_at"] = r.TrialEndsAt.UTC()
	}
	return m
}

type ListUsersQuery struct {
	Q                  string `query:"q"`
	Role               string `query:"role" validate:"omitempty,oneof=student professor admin"`
	SubscriptionStatus string `query:"subscription_status" validate:"omitempty,oneof=none trial active canceled expired"`
}
