package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/notifications/email"
	"erpr_backend/internals/features/sessions/dto"
	"erpr_backend/internals/features/sessions/model"
	"erpr_backend/internals/features/sessions/service"
	helper "erpr_backend/internals/helpers"
)

type SessionController struct {
	Service *service.SessionService
}

func NewSessionController(db *gorm.DB, mailer email.Mailer) *SessionController {
	return &SessionController{Service: service.NewSessionService(db, mailer)}
}

func mapErr(err error, context string) error {
	var fe *fiber.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, service.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Séance introuvable")
	case errors.Is(err, service.ErrNotScheduled):
		return fiber.NewError(fiber.StatusConflict, "Cette séance n'est plus programmée")
	case errors.Is(err, service.ErrCancelTooLate):
		return fiber.NewError(fiber.StatusBadRequest, "Annulation impossible moins de 24h avant la séance")
	case errors.Is(err, service.ErrStartsInPast):
		return fiber.NewError(fiber.StatusBadRequest, "La séance doit commencer dans le futur")
	case errors.Is(err, service.ErrOverlap):
		return fiber.NewError(fiber.StatusConflict, "Ce créneau chevauche une autre séance")
	case errors.Is(err, service.ErrProfessorInvalid):
		return fiber.NewError(fiber.StatusBadRequest, "Professeur inactif ou n'enseignant pas ce module")
	case errors.Is(err, service.ErrStudentInvalid):
		return fiber.NewError(fiber.StatusBadRequest, "Élève introuvable ou désactivé")
	case errors.Is(err, service.ErrNoSubscription):
		return fiber.NewError(fiber.StatusBadRequest, "L'élève n'a pas d'abonnement actif pour ce module")
	case errors.Is(err, service.ErrNotParticipant):
		return fiber.NewError(fiber.StatusForbidden, "Vous ne participez pas à cette séance")
	}
	return helper.Internal(err, context)
}

func caller(c *fiber.Ctx) (service.Caller, error) {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return service.Caller{}, err
	}
	return service.Caller{UserID: id, Role: helper.GetRole(c)}, nil
}

func (sc *SessionController) list(c *fiber.Ctx, scope func(*gorm.DB) *gorm.DB) error {
	var q dto.ListSessionsQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	if err := helper.ValidateStruct(&q); err != nil {
		return err
	}
	from, to, err := q.Range()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Date invalide (format attendu: 2006-01-02 ou RFC3339)")
	}

	tx := scope(sc.Service.Base(c.UserContext()))
	if q.ProfessorID != "" {
		tx = tx.Where("professor_id = ?", q.ProfessorID)
	}
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Module != "" {
		tx = tx.Where("module = ?", q.Module)
	}
	if from != nil {
		tx = tx.Where("starts_at >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("starts_at < ?", *to)
	}

	p := helper.ResolvePaging(c, 20, 100)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Internal(err, "sessions: count")
	}
	var rows []model.SessionModel
	if err := service.WithParties(tx).Order("starts_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.Internal(err, "sessions: list")
	}
	return helper.JsonList(c, "Séances", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

/* =======================================================
   ADMIN
   ======================================================= */

// POST /api/a/sessions
func (sc *SessionController) Create(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return err
	}
	sess := req.ToModel()
	if err := sc.Service.Create(c.UserContext(), sess); err != nil {
		return mapErr(err, "sessions: create")
	}
	return helper.JsonCreated(c, "Séance programmée", dto.FromModel(sess))
}

// GET /api/a/sessions
func (sc *SessionController) List(c *fiber.Ctx) error {
	return sc.list(c, func(tx *gorm.DB) *gorm.DB { return tx })
}

// GET /api/a/sessions/:id
func (sc *SessionController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	sess, err := sc.Service.Get(c.UserContext(), id)
	if err != nil {
		return mapErr(err, "sessions: get")
	}
	return helper.JsonOK(c, "Séance", dto.FromModel(sess))
}

// PATCH /api/a/sessions/:id
func (sc *SessionController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSessionRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	sess, err := sc.Service.Get(c.UserContext(), id)
	if err != nil {
		return mapErr(err, "sessions: get")
	}
	req.Apply(sess)
	if req.StartsAt != nil {
		// a moved session gets a fresh reminder
		sess.ReminderSentAt = nil
	}
	if err := sc.Service.Reschedule(c.UserContext(), sess, req.Reschedules()); err != nil {
		return mapErr(err, "sessions: update")
	}
	return helper.JsonUpdated(c, "Séance mise à jour", dto.FromModel(sess))
}

// DELETE /api/a/sessions/:id
func (sc *SessionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := sc.Service.Delete(c.UserContext(), id); err != nil {
		return mapErr(err, "sessions: delete")
	}
	return helper.JsonDeleted(c, "Séance supprimée", fiber.Map{"id": id})
}

/* =======================================================
   STUDENT / PROFESSOR
   ======================================================= */

// GET /api/u/sessions
func (sc *SessionController) MyList(c *fiber.Ctx) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	return sc.list(c, func(tx *gorm.DB) *gorm.DB { return tx.Where("user_id = ?", me.UserID) })
}

// GET /api/p/sessions (admins without a professor profile see every session)
func (sc *SessionController) ProfessorList(c *fiber.Ctx) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	prof, err := sc.Service.ProfessorForUser(c.UserContext(), me.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Internal(err, "sessions: professor lookup")
		}
		if !me.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "Aucun profil professeur n'est lié à ce compte")
		}
		return sc.list(c, func(tx *gorm.DB) *gorm.DB { return tx })
	}
	profID := prof.ID
	return sc.list(c, func(tx *gorm.DB) *gorm.DB { return tx.Where("professor_id = ?", profID) })
}

// POST /api/{u,p,a}/sessions/:id/cancel
func (sc *SessionController) Cancel(c *fiber.Ctx) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CancelSessionRequest
	if len(c.Body()) > 0 {
		if err := helper.ParseAndValidate(c, &req); err != nil {
			return err
		}
	}
	sess, err := sc.Service.Cancel(c.UserContext(), id, me, req.Reason)
	if err != nil {
		return mapErr(err, "sessions: cancel")
	}
	return helper.JsonUpdated(c, "Séance annulée", dto.FromModel(sess))
}
