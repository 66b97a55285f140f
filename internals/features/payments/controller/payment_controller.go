package controller

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/access"
	"erpr_backend/internals/features/notifications/email"
	"erpr_backend/internals/features/payments/dto"
	"erpr_backend/internals/features/payments/model"
	"erpr_backend/internals/features/payments/service"
	helper "erpr_backend/internals/helpers"
	authMiddleware "erpr_backend/internals/middlewares/auth"
)

type PaymentController struct {
	DB      *gorm.DB
	Service *service.PaymentService
}

func NewPaymentController(db *gorm.DB, gw service.Gateway, mailer email.Mailer) *PaymentController {
	return &PaymentController{DB: db, Service: service.NewPaymentService(db, gw, mailer)}
}

// POST /api/u/payments/checkout
func (pc *PaymentController) Checkout(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return err
	}

	p, err := pc.Service.Checkout(c.UserContext(), u, req.Plan, req.Module)
	switch {
	case errors.Is(err, service.ErrGatewayDisabled):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Le paiement en ligne est temporairement indisponible")
	case errors.Is(err, service.ErrUnknownPlan):
		return fiber.NewError(fiber.StatusBadRequest, "Formule inconnue")
	case err != nil:
		return helper.Internal(err, "payments: checkout")
	}
	return helper.JsonCreated(c, "Paiement initialisé", dto.NewCheckoutResponse(p))
}

// POST /api/payments/midtrans/notification
func (pc *PaymentController) Notification(c *fiber.Ctx) error {
	raw := append([]byte(nil), c.Body()...)
	var n service.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}

	res, err := pc.Service.HandleNotification(c.UserContext(), &n, raw)
	switch {
	case errors.Is(err, service.ErrBadSignature):
		return fiber.NewError(fiber.StatusForbidden, "Signature invalide")
	case errors.Is(err, service.ErrPaymentNotFound):
		// acknowledged so the gateway stops retrying
		return helper.JsonOK(c, "Commande inconnue, notification ignorée", fiber.Map{"order_id": n.OrderID, "processed": false})
	case err != nil:
		return helper.Internal(err, "payments: notification")
	}
	return helper.JsonOK(c, "Notification traitée", res)
}

// GET /api/u/payments
func (pc *PaymentController) MyPayments(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)
	tx := pc.DB.WithContext(c.UserContext()).Model(&model.PaymentModel{}).Where("user_id = ?", id)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Internal(err, "payments: count mine")
	}
	var rows []model.PaymentModel
	if err := tx.Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.Internal(err, "payments: list mine")
	}
	return helper.JsonList(c, "Mes paiements", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

// POST /api/u/subscription/cancel
func (pc *PaymentController) CancelSubscription(c *fiber.Ctx) error {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	u, err := pc.Service.CancelSubscription(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, service.ErrNothingToCancel) {
			return fiber.NewError(fiber.StatusBadRequest, "Aucun abonnement actif à résilier")
		}
		return helper.Internal(err, "payments: cancel subscription")
	}
	return helper.JsonUpdated(c, "Abonnement résilié, l'accès reste ouvert jusqu'à la fin de la période", access.BuildSummary(u, time.Now()))
}

func (pc *PaymentController) filtered(c *fiber.Ctx) (*gorm.DB, error) {
	var q dto.ListPaymentsQuery
	if err := c.QueryParser(&q); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	if err := helper.ValidateStruct(&q); err != nil {
		return nil, err
	}
	tx := pc.DB.WithContext(c.UserContext()).Model(&model.PaymentModel{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.Module != "" {
		tx = tx.Where("module = ?", q.Module)
	}
	return tx, nil
}

// GET /api/a/payments
func (pc *PaymentController) List(c *fiber.Ctx) error {
	tx, err := pc.filtered(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Internal(err, "payments: count")
	}
	var rows []model.PaymentModel
	if err := tx.Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.Internal(err, "payments: list")
	}
	return helper.JsonList(c, "Paiements", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

// GET /api/a/payments/export
func (pc *PaymentController) Export(c *fiber.Ctx) error {
	tx, err := pc.filtered(c)
	if err != nil {
		return err
	}
	var rows []model.PaymentModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return helper.Internal(err, "payments: export")
	}

	headers := []string{"ID", "Commande", "Utilisateur", "Formule", "Module", "Montant", "Devise", "Statut", "Moyen de paiement", "Payé le", "Créé le"}
	data := make([][]any, 0, len(rows))
	for _, p := range rows {
		method := ""
		if p.PaymentMethod != nil {
			method = *p.PaymentMethod
		}
		data = append(data, []any{
			p.ID.String(), p.OrderID, p.UserID.String(), p.Plan, p.Module,
			float64(p.Amount) / 100, p.Currency, p.Status, method,
			helper.FormatTime(p.PaidAt), p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	buf, err := helper.BuildXLSX("Paiements", headers, data)
	if err != nil {
		return helper.Internal(err, "payments: xlsx")
	}
	return helper.SendXLSX(c, "paiements", buf)
}
