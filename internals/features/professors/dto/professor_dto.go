package dto

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"erpr_backend/internals/features/professors/model"
)

type CreateProfessorRequest struct {
	FullName string     `json:"full_name" validate:"required,min=2,max=100"`
	Email    string     `json:"email" validate:"required,email,max=255"`
	Phone    *string    `json:"phone" validate:"omitempty,max=30"`
	Bio      *string    `json:"bio" validate:"omitempty,max=2000"`
	Modules  []string   `json:"modules" validate:"required,min=1,dive,oneof=erpr tajwid"`
	UserID   *uuid.UUID `json:"user_id"`
	IsActive *bool      `json:"is_active"`
}

func (r *CreateProfessorRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Modules = NormalizeModules(r.Modules)
}

func (r *CreateProfessorRequest) ToModel() *model.ProfessorModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &model.ProfessorModel{
		UserID:   r.UserID,
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Bio:      r.Bio,
		Modules:  pq.StringArray(r.Modules),
		IsActive: active,
	}
}

type UpdateProfessorRequest struct {
	FullName *string    `json:"full_name" validate:"omitempty,min=2,max=100"`
	Email    *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string    `json:"phone" validate:"omitempty,max=30"`
	Bio      *string    `json:"bio" validate:"omitempty,max=2000"`
	Modules  []string   `json:"modules" validate:"omitempty,min=1,dive,oneof=erpr tajwid"`
	UserID   *uuid.UUID `json:"user_id"`
	IsActive *bool      `json:"is_active"`
}

func (r *UpdateProfessorRequest) Normalize() {
	if r.FullName != nil {
		v := strings.TrimSpace(*r.FullName)
		r.FullName = &v
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.Modules != nil {
		r.Modules = NormalizeModules(r.Modules)
	}
}

func (r *UpdateProfessorRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.FullName != nil {
		m["full_name"] = *r.FullName
	}
	if r.Email != nil {
		m["email"] = *r.Email
	}
	if r.Phone != nil {
		m["phone"] = *r.Phone
	}
	if r.Bio != nil {
		m["bio"] = *r.Bio
	}
	if r.Modules != nil {
		m["modules"] = pq.StringArray(r.Modules)
	}
	if r.UserID != nil {
		m["user_id"] = *r.UserID
	}
	if r.IsActive != nil {
		m["is_active"] = *r.IsActive
	}
	return m
}

// NormalizeModules lower-cases, trims and de-duplicates, keeping a stable order.
func NormalizeModules(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = strings.ToLower(strings.TrimSpace(m))
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

type ListProfessorsQuery struct {
	Q        string `query:"q"`
	Module   string `query:"module" validate:"omitempty,oneof=erpr tajwid"`
	IsActive *bool  `query:"is_active"`
}

type ProfessorResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Bio       *string    `json:"bio,omitempty"`
	Modules   []string   `json:"modules"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func FromModel(p *model.ProfessorModel) ProfessorResponse {
	mods := []string(p.Modules)
	if mods == nil {
		mods = []string{}
	}
	return ProfessorResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		Bio:       p.Bio,
		Modules:   mods,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromModels(ps []model.ProfessorModel) []ProfessorResponse {
	out := make([]ProfessorResponse, 0, len(ps))
	for i := range ps {
		out = append(out, FromModel(&ps[i]))
	}
	return out
}

// PublicProfessorResponse leaves out contact data.
type PublicProfessorResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Bio      *string   `json:"bio,omitempty"`
	Modules  []string  `json:"modules"`
}

func ToPublic(ps []model.ProfessorModel) []PublicProfessorResponse {
	out := make([]PublicProfessorResponse, 0, len(ps))
	for _, p := range ps {
		mods := []string(p.Modules)
		if mods == nil {
			mods = []string{}
		}
		out = append(out, PublicProfessorResponse{ID: p.ID, FullName: p.FullName, Bio: p.Bio, Modules: mods})
	}
	return out
}
