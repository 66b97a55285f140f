package service

import (
	"context"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/features/payments/model"
)

type Customer struct {
	Name  string
	Email string
}

type Checkout struct {
	Token       string
	RedirectURL string
}

// Gateway creates hosted checkout transactions.
type Gateway interface {
	CreateTransaction(ctx context.Context, p *model.PaymentModel, cust Customer) (*Checkout, error)
}

// Notification is the payload posted by Midtrans to the webhook. Extra fields are ignored.
type Notification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	SettlementTime    string `json:"settlement_time"`
}

type MidtransGateway struct {
	client snap.Client
}

// NewMidtransGateway returns nil when no server key is configured.
func NewMidtransGateway() *MidtransGateway {
	if strings.TrimSpace(configs.MidtransServerKey) == "" {
		return nil
	}
	env := midtrans.Sandbox
	if configs.MidtransUseProd {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.client.New(configs.MidtransServerKey, env)
	return g
}

func (g *MidtransGateway) CreateTransaction(_ context.Context, p *model.PaymentModel, cust Customer) (*Checkout, error) {
	first, last := splitName(cust.Name)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  p.OrderID,
			GrossAmt: p.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: cust.Email,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       p.Plan + "-" + p.Module,
			Price:    p.Amount,
			Qty:      1,
			Name:     "Abonnement " + p.Plan + " " + p.Module,
			Category: "subscription",
		}},
		CreditCard: &snap.CreditCardDetails{Secure: true},
	}

	resp, merr := g.client.CreateTransaction(req)
	if merr != nil {
		return nil, merr
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
