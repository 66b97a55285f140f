package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/homeworks/dto"
	"erpr_backend/internals/features/homeworks/service"
	"erpr_backend/internals/features/notifications/email"
	helper "erpr_backend/internals/helpers"
	authMiddleware "erpr_backend/internals/middlewares/auth"
)

type HomeworkController struct {
	Service *service.HomeworkService
}

func NewHomeworkController(db *gorm.DB, mailer email.Mailer) *HomeworkController {
	return &HomeworkController{Service: service.NewHomeworkService(db, mailer)}
}

func mapErr(c *fiber.Ctx, err error, context string) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, service.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Devoir introuvable")
	case errors.Is(err, service.ErrSendNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Envoi introuvable")
	case errors.Is(err, service.ErrLocked):
		return fiber.NewError(fiber.StatusForbidden, constants.MsgChapterLocked)
	case errors.Is(err, service.ErrAlreadySent):
		return fiber.NewError(fiber.StatusConflict, "Devoir déjà envoyé")
	case errors.Is(err, service.ErrEmptySend):
		return fiber.NewError(fiber.StatusBadRequest, "Le devoir envoyé est vide")
	case errors.Is(err, service.ErrGradeRequired):
		return helper.JsonValidationError(c, map[string][]string{"grade": {"note obligatoire (0 à 20) pour un devoir corrigé"}})
	case errors.Is(err, service.ErrChapterOutside):
		module := authMiddleware.Module(c)
		return helper.JsonValidationError(c, map[string][]string{
			"chapter": {"Le chapitre doit être compris entre 1 et " + strconv.Itoa(configs.ChapterCount(module))},
		})
	}
	return helper.Internal(err, context)
}

/* =======================================================
   ADMIN  /api/a/homeworks/:module
   ======================================================= */

func (hc *HomeworkController) Create(c *fiber.Ctx) error {
	module := authMiddleware.Module(c)
	var req dto.CreateHomeworkRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	h := req.ToModel()
	if err := hc.Service.Create(c.UserContext(), module, h); err != nil {
		return mapErr(c, err, "homeworks: create")
	}
	return helper.JsonCreated(c, "Devoir créé", h)
}

func (hc *HomeworkController) List(c *fiber.Ctx) error {
	module := authMiddleware.Module(c)
	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := hc.Service.List(c.UserContext(), module, false, c.QueryInt("chapter"), p.Offset, p.Limit)
	if err != nil {
		return helper.Internal(err, "homeworks: list")
	}
	return helper.JsonList(c, "Devoirs", rows, helper.BuildPagination(total, p, len(rows)))
}

func (hc *HomeworkController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	h, err := hc.Service.Get(c.UserContext(), authMiddleware.Module(c), id)
	if err != nil {
		return mapErr(c, err, "homeworks: get")
	}
	return helper.JsonOK(c, "Devoir", h)
}

func (hc *HomeworkController) Update(c *fiber.Ctx) error {
	module := authMiddleware.Module(c)
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateHomeworkRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	h, err := hc.Service.Get(c.UserContext(), module, id)
	if err != nil {
		return mapErr(c, err, "homeworks: get")
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.JsonOK(c, "Aucune modification", h)
	}
	if err := hc.Service.Update(c.UserContext(), module, h, updates); err != nil {
		return mapErr(c, err, "homeworks: update")
	}
	return helper.JsonUpdated(c, "Devoir mis à jour", h)
}

func (hc *HomeworkController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := hc.Service.Delete(c.UserContext(), authMiddleware.Module(c), id); err != nil {
		return mapErr(c, err, "homeworks: delete")
	}
	return helper.JsonDeleted(c, "Devoir supprimé", fiber.Map{"id": id})
}

/* =======================================================
   STUDENT  /api/u/homeworks/:module
   ======================================================= */

func (hc *HomeworkController) StudentList(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	items, err := hc.Service.StudentList(c.UserContext(), authMiddleware.Module(c), u)
	if err != nil {
		return helper.Internal(err, "homeworks: student list")
	}
	return helper.JsonOK(c, "Devoirs", items)
}

func (hc *HomeworkController) StudentGet(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	module := authMiddleware.Module(c)
	h, err := hc.Service.PublishedForStudent(c.UserContext(), module, id, u)
	if err != nil {
		return mapErr(c, err, "homeworks: student get")
	}
	mine, err := hc.Service.MySends(c.UserContext(), module, u.ID, nil)
	if err != nil {
		return helper.Internal(err, "homeworks: my send")
	}
	return helper.JsonOK(c, "Devoir", fiber.Map{
		"homework": dto.NewHomeworkItem(h, false, mine[h.ID]),
		"send":     mine[h.ID],
	})
}

func (hc *HomeworkController) Send(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SendHomeworkRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	send, err := hc.Service.Send(c.UserContext(), authMiddleware.Module(c), id, u, &req)
	if err != nil {
		return mapErr(c, err, "homeworks: send")
	}
	return helper.JsonCreated(c, "Devoir envoyé", send)
}

func (hc *HomeworkController) MySends(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	module := authMiddleware.Module(c)
	p := helper.ResolvePaging(c, 20, 100)
	q := dto.ListSendsQuery{UserID: u.ID.String(), Status: c.Query("status")}
	if err := helper.ValidateStruct(&q); err != nil {
		return err
	}
	rows, total, err := hc.Service.ListSends(c.UserContext(), module, q, p.Offset, p.Limit)
	if err != nil {
		return helper.Internal(err, "homeworks: my sends")
	}
	return helper.JsonList(c, "Mes devoirs", rows, helper.BuildPagination(total, p, len(rows)))
}

/* =======================================================
   GRADING  /api/p/homework-sends/:module
   ======================================================= */

func (hc *HomeworkController) ListSends(c *fiber.Ctx) error {
	var q dto.ListSendsQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	if err := helper.ValidateStruct(&q); err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := hc.Service.ListSends(c.UserContext(), authMiddleware.Module(c), q, p.Offset, p.Limit)
	if err != nil {
		return helper.Internal(err, "homeworks: list sends")
	}
	return helper.JsonList(c, "Devoirs envoyés", rows, helper.BuildPagination(total, p, len(rows)))
}

func (hc *HomeworkController) Grade(c *fiber.Ctx) error {
	grader, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.GradeSendRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	resp, err := hc.Service.Grade(c.UserContext(), authMiddleware.Module(c), id, grader, &req)
	if err != nil {
		return mapErr(c, err, "homeworks: grade")
	}
	return helper.JsonUpdated(c, "Devoir corrigé", resp)
}
