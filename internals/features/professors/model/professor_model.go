package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProfessorModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    *uuid.UUID     `gorm:"column:user_id;type:uuid" json:"user_id,omitempty"`
	FullName  string         `gorm:"column:full_name;size:100;not null" json:"full_name"`
	Email     string         `gorm:"column:email;size:255;not null" json:"email"`
	Phone     *string        `gorm:"column:phone;size:30" json:"phone,omitempty"`
	Bio       *string        `gorm:"column:bio" json:"bio,omitempty"`
	Modules   pq.StringArray `gorm:"column:modules;type:text[];not null;default:'{}'" json:"modules"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProfessorModel) TableName() string {
	return "professors"
}

func (p *ProfessorModel) Teaches(module string) bool {
	for _, m := range p.Modules {
		if m == module {
			return true
		}
	}
	return false
}
