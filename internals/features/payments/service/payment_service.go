package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/access"
	"erpr_backend/internals/features/notifications/email"
	"erpr_backend/internals/features/payments/model"
	userModel "erpr_backend/internals/features/users/user/model"
	"erpr_backend/internals/logging"
	"erpr_backend/internals/observability"
)

type PaymentService struct {
	DB      *gorm.DB
	Gateway Gateway
	Mailer  email.Mailer
	Now     func() time.Time
}

func NewPaymentService(db *gorm.DB, gw Gateway, mailer email.Mailer) *PaymentService {
	return &PaymentService{DB: db, Gateway: gw, Mailer: mailer, Now: time.Now}
}

// DefaultGateway is Midtrans when configured, nil otherwise.
func DefaultGateway() Gateway {
	if g := NewMidtransGateway(); g != nil {
		return g
	}
	return nil
}

// Checkout records a pending payment then opens a gateway transaction for it.
func (s *PaymentService) Checkout(ctx context.Context, u *userModel.UserModel, plan, module string) (*model.PaymentModel, error) {
	if s.Gateway == nil {
		return nil, ErrGatewayDisabled
	}
	amount, err := Price(plan, module)
	if err != nil {
		return nil, err
	}
	p := &model.PaymentModel{
		UserID:   u.ID,
		OrderID:  NewOrderID(s.Now()),
		Plan:     plan,
		Module:   module,
		Amount:   amount,
		Currency: configs.Currency,
		Status:   model.StatusPending,
		Gateway:  model.GatewayMidtrans,
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}

	out, err := s.Gateway.CreateTransaction(ctx, p, Customer{Name: u.FullName, Email: u.Email})
	if err != nil {
		if uerr := s.DB.WithContext(ctx).Model(p).Update("status", model.StatusFailed).Error; uerr != nil {
			logging.L().Warnw("payment fail mark", "order_id", p.OrderID, "error", uerr)
		}
		return nil, err
	}
	p.SnapToken, p.RedirectURL = &out.Token, &out.RedirectURL
	if err := s.DB.WithContext(ctx).Model(p).Updates(map[string]any{
		"snap_token":   out.Token,
		"redirect_url": out.RedirectURL,
	}).Error; err != nil {
		return nil, err
	}
	return p, nil
}

type NotificationResult struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Processed bool   `json:"processed"`
	Activated bool   `json:"activated"`
}

// HandleNotification verifies and applies a gateway notification. Replays and
// out-of-order notifications are acknowledged without changing anything.
func (s *PaymentService) HandleNotification(ctx context.Context, n *Notification, raw []byte) (*NotificationResult, error) {
	if !VerifySignature(n, configs.MidtransServerKey) {
		return nil, ErrBadSignature
	}
	target := MapStatus(n.TransactionStatus, n.FraudStatus)
	now := s.Now().UTC()
	res := &NotificationResult{OrderID: n.OrderID, Status: target}

	var (
		pay  model.PaymentModel
		user userModel.UserModel
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pay, "order_id = ?", n.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		res.Status = pay.Status
		if !Transition(pay.Status, target) {
			return nil
		}

		updates := map[string]any{"status": target}
		if json.Valid(raw) {
			updates["raw_notification"] = datatypes.JSON(raw)
		}
		if n.PaymentType != "" {
			updates["payment_method"] = n.PaymentType
		}
		if target == model.StatusPaid {
			updates["paid_at"] = now
		}
		if err := tx.Model(&pay).Updates(updates).Error; err != nil {
			return err
		}
		res.Status, res.Processed = target, true

		if target != model.StatusPaid {
			return nil
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", pay.UserID).Error; err != nil {
			return err
		}
		endsAt := ExtendedEndsAt(&user, pay.Plan, now)
		if err := tx.Model(&user).Updates(map[string]any{
			"subscription_status":  constants.SubscriptionActive,
			"subscription_module":  pay.Module,
			"subscription_plan":    pay.Plan,
			"subscription_ends_at": endsAt,
		}).Error; err != nil {
			return err
		}
		user.SubscriptionEndsAt = &endsAt
		res.Activated = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Processed {
		observability.Payments.WithLabelValues(res.Status).Inc()
		logging.L().Infow("payment status updated", "order_id", n.OrderID, "status", res.Status, "activated", res.Activated)
	}
	if res.Activated {
		email.Notify(ctx, s.Mailer, email.TplPaymentReceipt, email.Addr(user.FullName, user.Email), map[string]any{
			"Amount":   FormatAmount(pay.Amount),
			"Currency": pay.Currency,
			"OrderID":  pay.OrderID,
			"Plan":     planLabel(pay.Plan),
			"Module":   pay.Module,
			"EndsAt":   email.FormatDate(*user.SubscriptionEndsAt),
		})
	}
	return res, nil
}

func planLabel(plan string) string {
	if plan == constants.PlanYearly {
		return "annuel"
	}
	return "mensuel"
}

// CancelSubscription stops renewal; access stays until subscription_ends_at.
func (s *PaymentService) CancelSubscription(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, error) {
	var u userModel.UserModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", userID).Error; err != nil {
			return err
		}
		if u.SubscriptionStatus != constants.SubscriptionActive || !access.SubscriptionActive(&u, s.Now()) {
			return ErrNothingToCancel
		}
		return tx.Model(&u).Update("subscription_status", constants.SubscriptionCanceled).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
