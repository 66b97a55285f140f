package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"erpr_backend/internals/features/sessions/model"
)

type CreateSessionRequest struct {
	ProfessorID     uuid.UUID `json:"professor_id" validate:"required"`
	UserID          uuid.UUID `json:"user_id" validate:"required"`
	Module          string    `json:"module" validate:"required,oneof=erpr tajwid"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=15,max=180"`
	MeetingURL      *string   `json:"meeting_url" validate:"omitempty,url"`
	Notes           *string   `json:"notes" validate:"omitempty,max=2000"`
}

func (r *CreateSessionRequest) Normalize() {
	r.Module = strings.ToLower(strings.TrimSpace(r.Module))
	r.StartsAt = r.StartsAt.UTC()
}

func (r *CreateSessionRequest) ToModel() *model.SessionModel {
	return &model.SessionModel{
		ProfessorID:     r.ProfessorID,
		UserID:          r.UserID,
		Module:          r.Module,
		StartsAt:        r.StartsAt,
		DurationMinutes: r.DurationMinutes,
		Status:          model.StatusScheduled,
		MeetingURL:      r.MeetingURL,
		Notes:           r.Notes,
	}
}

// UpdateSessionRequest reschedules or edits a scheduled session.
type UpdateSessionRequest struct {
	StartsAt        *time.Time `json:"starts_at"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,min=15,max=180"`
	MeetingURL      *string    `json:"meeting_url" validate:"omitempty,url"`
	Notes           *string    `json:"notes" validate:"omitempty,max=2000"`
}

func (r *UpdateSessionRequest) Reschedules() bool {
	return r.StartsAt != nil || r.DurationMinutes != nil
}

// Apply copies the set fields onto s.
func (r *UpdateSessionRequest) Apply(s *model.SessionModel) {
	if r.StartsAt != nil {
		s.StartsAt = r.StartsAt.UTC()
	}
	if r.DurationMinutes != nil {
		s.DurationMinutes = *r.DurationMinutes
	}
	if r.MeetingURL != nil {
		s.MeetingURL = r.MeetingURL
	}
	if r.Notes != nil {
		s.Notes = r.Notes
	}
}

type CancelSessionRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

type ListSessionsQuery struct {
	ProfessorID string `query:"professor_id" validate:"omitempty,uuid"`
	UserID      string `query:"user_id" validate:"omitempty,uuid"`
	Status      string `query:"status" validate:"omitempty,oneof=scheduled canceled completed"`
	Module      string `query:"module" validate:"omitempty,oneof=erpr tajwid"`
	From        string `query:"from"`
	To          string `query:"to"`
}

// Range parses from/to as RFC3339 or as a plain date (YYYY-MM-DD, UTC).
func (q *ListSessionsQuery) Range() (from, to *time.Time, err error) {
	if from, err = parseBound(q.From); err != nil {
		return nil, nil, err
	}
	if to, err = parseBound(q.To); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func parseBound(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type PartyResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

type CancellationResponse struct {
	CanceledByRole string    `json:"canceled_by_role"`
	Reason         *string   `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type SessionResponse struct {
	ID              uuid.UUID             `json:"id"`
	Module          string                `json:"module"`
	StartsAt        time.Time             `json:"starts_at"`
	EndsAt          time.Time             `json:"ends_at"`
	DurationMinutes int                   `json:"duration_minutes"`
	Status          string                `json:"status"`
	MeetingURL      *string               `json:"meeting_url,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	Professor       PartyResponse         `json:"professor"`
	Student         PartyResponse         `json:"student"`
	Cancellation    *CancellationResponse `json:"cancellation,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

func FromModel(s *model.SessionModel) SessionResponse {
	out := SessionResponse{
		ID:              s.ID,
		Module:          s.Module,
		StartsAt:        s.StartsAt,
		EndsAt:          s.EndsAt(),
		DurationMinutes: s.DurationMinutes,
		Status:          s.Status,
		MeetingURL:      s.MeetingURL,
		Notes:           s.Notes,
		Professor:       PartyResponse{ID: s.ProfessorID},
		Student:         PartyResponse{ID: s.UserID},
		CreatedAt:       s.CreatedAt,
	}
	if s.Professor != nil {
		out.Professor.FullName = s.Professor.FullName
	}
	if s.User != nil {
		out.Student.FullName = s.User.FullName
		if out.Student.FullName == "" {
			out.Student.FullName = s.User.UserName
		}
	}
	if s.Cancellation != nil {
		out.Cancellation = &CancellationResponse{
			CanceledByRole: s.Cancellation.CanceledByRole,
			Reason:         s.Cancellation.Reason,
			CreatedAt:      s.Cancellation.CreatedAt,
		}
	}
	return out
}

func FromModels(ss []model.SessionModel) []SessionResponse {
	out := make([]SessionResponse, 0, len(ss))
	for i := range ss {
		out = append(out, FromModel(&ss[i]))
	}
	return out
}
