package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusFailed   = "failed"
	StatusExpired  = "expired"
	StatusCanceled = "canceled"
	StatusRefunded = "refunded"
)

const GatewayMidtrans = "midtrans"

// PaymentModel amounts are in minor units (cents).
type PaymentModel struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	OrderID         string         `gorm:"column:order_id;size:100;not null;uniqueIndex" json:"order_id"`
	Plan            string         `gorm:"column:plan;type:varchar(10);not null" json:"plan"`
	Module          string         `gorm:"column:module;type:varchar(10);not null" json:"module"`
	Amount          int64          `gorm:"column:amount;not null" json:"amount"`
	Currency        string         `gorm:"column:currency;size:3;not null;default:'EUR'" json:"currency"`
	Status          string         `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	Gateway         string         `gorm:"column:gateway;size:30;not null;default:'midtrans'" json:"gateway"`
	SnapToken       *string        `gorm:"column:snap_token" json:"snap_token,omitempty"`
	RedirectURL     *string        `gorm:"column:redirect_url" json:"redirect_url,omitempty"`
	PaymentMethod   *string        `gorm:"column:payment_method;size:50" json:"payment_method,omitempty"`
	PaidAt          *time.Time     `gorm:"column:paid_at" json:"paid_at,omitempty"`
	RawNotification datatypes.JSON `gorm:"column:raw_notification;type:jsonb" json:"-"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentModel) TableName() string {
	return "payments"
}
