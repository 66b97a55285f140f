package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/access"
	"erpr_backend/internals/features/payments/model"
	userModel "erpr_backend/internals/features/users/user/model"
)

var (
	ErrUnknownPlan     = errors.New("unknown plan or module")
	ErrGatewayDisabled = errors.New("payment gateway not configured")
	ErrBadSignature    = errors.New("invalid notification signature")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrNothingToCancel = errors.New("no active subscription to cancel")
)

// Price returns the configured amount in minor units.
func Price(plan, module string) (int64, error) {
	if !constants.IsSubscriptionModule(module) {
		return 0, ErrUnknownPlan
	}
	both := module == constants.ModuleBoth
	switch plan {
	case constants.PlanMonthly:
		if both {
			return configs.PriceMonthlyBoth, nil
		}
		return configs.PriceMonthlyOne, nil
	case constants.PlanYearly:
		if both {
			return configs.PriceYearlyBoth, nil
		}
		return configs.PriceYearlyOne, nil
	}
	return 0, ErrUnknownPlan
}

func NewOrderID(now time.Time) string {
	return fmt.Sprintf("ERPR-%d", now.UnixNano())
}

// Signature is sha512(order_id + status_code + gross_amount + server_key), hex encoded.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(n *Notification, serverKey string) bool {
	if serverKey == "" || n.SignatureKey == "" {
		return false
	}
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(n.SignatureKey))) == 1
}

// MapStatus turns a gateway transaction status into a payment status.
// Unknown statuses return "" and leave the payment untouched.
func MapStatus(transactionStatus, fraudStatus string) string {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "", "accept":
			return model.StatusPaid
		case "challenge":
			return model.StatusPending
		}
		return model.StatusFailed
	case "settlement":
		return model.StatusPaid
	case "pending":
		return model.StatusPending
	case "deny", "failure":
		return model.StatusFailed
	case "expire":
		return model.StatusExpired
	case "cancel":
		return model.StatusCanceled
	case "refund", "partial_refund":
		return model.StatusRefunded
	}
	return ""
}

// Transition reports whether a payment in status from may move to status to.
// A paid payment only moves to refunded; a final non-paid status only moves to paid.
func Transition(from, to string) bool {
	if to == "" || from == to {
		return false
	}
	switch from {
	case model.StatusPaid:
		return to == model.StatusRefunded
	case model.StatusRefunded:
		return false
	case model.StatusPending:
		return true
	}
	return to == model.StatusPaid
}

// ExtendedEndsAt returns max(now, current ends_at while still active) + plan duration.
func ExtendedEndsAt(u *userModel.UserModel, plan string, now time.Time) time.Time {
	start := now
	if access.SubscriptionActive(u, now) && u.SubscriptionEndsAt != nil && u.SubscriptionEndsAt.After(now) {
		start = *u.SubscriptionEndsAt
	}
	return start.Add(constants.PlanDuration(plan)).UTC()
}

// FormatAmount renders minor units as "19,00".
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d,%02d", sign, minor/100, minor%100)
}
