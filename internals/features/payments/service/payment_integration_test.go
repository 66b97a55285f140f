//go:build integration

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/notifications/email"
	"erpr_backend/internals/features/payments/model"
	"erpr_backend/internals/testutil/testdb"
)

type fakeGateway struct{ err error }

func (f fakeGateway) CreateTransaction(_ context.Context, p *model.PaymentModel, _ Customer) (*Checkout, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Checkout{Token: "tok-" + p.OrderID, RedirectURL: "https://pay.example/" + p.OrderID}, nil
}

func signed(orderID, status, gross string) (*Notification, []byte) {
	n := &Notification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       gross,
		TransactionStatus: status,
		PaymentType:       "credit_card",
	}
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, configs.MidtransServerKey)
	raw, _ := json.Marshal(n)
	return n, raw
}

func TestPaymentFlowAgainstPostgres(t *testing.T) {
	db := testdb.Start(t)
	ctx := context.Background()
	configs.MidtransServerKey = "server-key"
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	mailer := email.NewConsoleMailer()
	svc := NewPaymentService(db, fakeGateway{}, mailer)
	svc.Now = func() time.Time { return now }

	u := testdb.Student(t, db, testdb.Trial(now.Add(48*time.Hour)))

	p, err := svc.Checkout(ctx, u, constants.PlanMonthly, constants.ModuleBoth)
	require.NoError(t, err)
	assert.Equal(t, configs.PriceMonthlyBoth, p.Amount)
	require.NotNil(t, p.SnapToken)

	n, raw := signed(p.OrderID, "settlement", "29.00")
	res, err := svc.HandleNotification(ctx, n, raw)
	require.NoError(t, err)
	assert.True(t, res.Processed)
	assert.True(t, res.Activated)

	got := testdb.Reload(t, db, u.ID)
	assert.Equal(t, constants.SubscriptionActive, got.SubscriptionStatus)
	require.NotNil(t, got.SubscriptionEndsAt)
	assert.WithinDuration(t, now.Add(30*24*time.Hour), *got.SubscriptionEndsAt, time.Second)
	assert.Equal(t, constants.ModuleBoth, *got.SubscriptionModule)

	// a replayed settlement changes nothing
	res, err = svc.HandleNotification(ctx, n, raw)
	require.NoError(t, err)
	assert.False(t, res.Processed)
	assert.WithinDuration(t, *got.SubscriptionEndsAt, *testdb.Reload(t, db, u.ID).SubscriptionEndsAt, time.Second)

	var stored model.PaymentModel
	require.NoError(t, db.First(&stored, "order_id = ?", p.OrderID).Error)
	assert.Equal(t, model.StatusPaid, stored.Status)
	assert.NotEmpty(t, stored.RawNotification)

	var receipts int
	for _, m := range mailer.Messages() {
		if m.Template == email.TplPaymentReceipt {
			receipts++
		}
	}
	assert.Equal(t, 1, receipts)

	unknown, unknownRaw := signed("ERPR-404", "settlement", "19.00")
	_, err = svc.HandleNotification(ctx, unknown, unknownRaw)
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	cancelled, err := svc.CancelSubscription(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.SubscriptionCanceled, cancelled.SubscriptionStatus)
	_, err = svc.CancelSubscription(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNothingToCancel)
}

func TestCheckoutGatewayFailureMarksPaymentFailed(t *testing.T) {
	db := testdb.Start(t)
	ctx := context.Background()
	svc := NewPaymentService(db, fakeGateway{err: errors.New("gateway down")}, nil)
	u := testdb.Student(t, db, nil)

	_, err := svc.Checkout(ctx, u, constants.PlanYearly, constants.ModuleErpr)
	require.Error(t, err)

	var p model.PaymentModel
	require.NoError(t, db.First(&p, "user_id = ?", u.ID).Error)
	assert.Equal(t, model.StatusFailed, p.Status)
}
