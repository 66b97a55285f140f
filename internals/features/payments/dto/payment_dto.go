package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"erpr_backend/internals/features/payments/model"
)

type CheckoutRequest struct {
	Plan   string `json:"plan" validate:"required,oneof=monthly yearly"`
	Module string `json:"module" validate:"required,oneof=erpr tajwid both"`
}

func (r *CheckoutRequest) Normalize() {
	r.Plan = strings.ToLower(strings.TrimSpace(r.Plan))
	r.Module = strings.ToLower(strings.TrimSpace(r.Module))
}

type CheckoutResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	OrderID     string    `json:"order_id"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	SnapToken   string    `json:"snap_token"`
	RedirectURL string    `json:"redirect_url"`
}

func NewCheckoutResponse(p *model.PaymentModel) CheckoutResponse {
	out := CheckoutResponse{PaymentID: p.ID, OrderID: p.OrderID, Amount: p.Amount, Currency: p.Currency}
	if p.SnapToken != nil {
		out.SnapToken = *p.SnapToken
	}
	if p.RedirectURL != nil {
		out.RedirectURL = *p.RedirectURL
	}
	return out
}

type ListPaymentsQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending paid failed expired canceled refunded"`
	UserID string `query:"user_id" validate:"omitempty,uuid"`
	Module string `query:"module" validate:"omitempty,oneof=erpr tajwid both"`
}

type PaymentResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	OrderID       string     `json:"order_id"`
	Plan          string     `json:"plan"`
	Module        string     `json:"module"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromModel(p *model.PaymentModel) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		OrderID:       p.OrderID,
		Plan:          p.Plan,
		Module:        p.Module,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
	}
}

func FromModels(ps []model.PaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ps))
	for i := range ps {
		out = append(out, FromModel(&ps[i]))
	}
	return out
}
