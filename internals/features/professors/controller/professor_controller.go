package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/professors/dto"
	"erpr_backend/internals/features/professors/model"
	userModel "erpr_backend/internals/features/users/user/model"
	helper "erpr_backend/internals/helpers"
)

const (
	msgProfessorNotFound = "Professeur introuvable"
	msgProfessorEmail    = "Un professeur utilise déjà cet email"
	msgLinkedUser        = "Compte utilisateur lié introuvable"
	msgUserAlreadyLinked = "Ce compte est déjà lié à un autre professeur"
)

type ProfessorController struct {
	DB *gorm.DB
}

func NewProfessorController(db *gorm.DB) *ProfessorController {
	return &ProfessorController{DB: db}
}

func emailTaken(tx *gorm.DB, email string, exclude *uuid.UUID) (bool, error) {
	q := tx.Model(&model.ProfessorModel{}).Where("lower(email) = ?", strings.ToLower(email))
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// linkUser checks the account exists and promotes a student to professor.
// Admin accounts keep their role.
func linkUser(tx *gorm.DB, userID uuid.UUID, exclude *uuid.UUID) error {
	var u userModel.UserModel
	if err := tx.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, msgLinkedUser)
		}
		return helper.Internal(err, "professors: linked user lookup")
	}

	q := tx.Model(&model.ProfessorModel{}).Where("user_id = ?", userID)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return helper.Internal(err, "professors: linked user check")
	}
	if n > 0 {
		return fiber.NewError(fiber.StatusConflict, msgUserAlreadyLinked)
	}

	if u.Role == constants.RoleStudent {
		if err := tx.Model(&u).Update("role", constants.RoleProfessor).Error; err != nil {
			return helper.Internal(err, "professors: promote user")
		}
	}
	return nil
}

func mapWriteError(err error, context string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.NewError(fiber.StatusConflict, msgProfessorEmail)
	}
	return helper.Internal(err, context)
}

// POST /api/a/professors
func (pc *ProfessorController) Create(c *fiber.Ctx) error {
	var req dto.CreateProfessorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return err
	}

	p := req.ToModel()
	err := pc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, p.Email, nil)
		if err != nil {
			return err
		}
		if taken {
			return fiber.NewError(fiber.StatusConflict, msgProfessorEmail)
		}
		if p.UserID != nil {
			if err := linkUser(tx, *p.UserID, nil); err != nil {
				return err
			}
		}
		return tx.Create(p).Error
	})
	if err != nil {
		return mapWriteError(err, "professors: create")
	}
	return helper.JsonCreated(c, "Professeur créé", dto.FromModel(p))
}

func (pc *ProfessorController) filtered(c *fiber.Ctx) (*gorm.DB, error) {
	var q dto.ListProfessorsQuery
	if err := c.QueryParser(&q); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	if err := helper.ValidateStruct(&q); err != nil {
		return nil, err
	}
	tx := pc.DB.WithContext(c.UserContext()).Model(&model.ProfessorModel{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}
	if q.Module != "" {
		tx = tx.Where("? = ANY(modules)", q.Module)
	}
	if q.IsActive != nil {
		tx = tx.Where("is_active = ?", *q.IsActive)
	}
	return tx, nil
}

// GET /api/a/professors
func (pc *ProfessorController) List(c *fiber.Ctx) error {
	tx, err := pc.filtered(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Internal(err, "professors: count")
	}
	var rows []model.ProfessorModel
	if err := tx.Order("full_name ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.Internal(err, "professors: list")
	}
	return helper.JsonList(c, "Professeurs", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

func (pc *ProfessorController) find(c *fiber.Ctx) (*model.ProfessorModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var p model.ProfessorModel
	if err := pc.DB.WithContext(c.UserContext()).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, msgProfessorNotFound)
		}
		return nil, helper.Internal(err, "professors: get")
	}
	return &p, nil
}

// GET /api/a/professors/:id
func (pc *ProfessorController) Get(c *fiber.Ctx) error {
	p, err := pc.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Professeur", dto.FromModel(p))
}

// PATCH /api/a/professors/:id
func (pc *ProfessorController) Update(c *fiber.Ctx) error {
	p, err := pc.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfessorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return err
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.JsonOK(c, "Aucune modification", dto.FromModel(p))
	}

	err = pc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if req.Email != nil && !strings.EqualFold(*req.Email, p.Email) {
			taken, err := emailTaken(tx, *req.Email, &p.ID)
			if err != nil {
				return err
			}
			if taken {
				return fiber.NewError(fiber.StatusConflict, msgProfessorEmail)
			}
		}
		if req.UserID != nil && (p.UserID == nil || *p.UserID != *req.UserID) {
			if err := linkUser(tx, *req.UserID, &p.ID); err != nil {
				return err
			}
		}
		return tx.Model(p).Updates(updates).Error
	})
	if err != nil {
		return mapWriteError(err, "professors: update")
	}
	return helper.JsonUpdated(c, "Professeur mis à jour", dto.FromModel(p))
}

// DELETE /api/a/professors/:id (soft delete, scheduled sessions stay untouched)
func (pc *ProfessorController) Delete(c *fiber.Ctx) error {
	p, err := pc.find(c)
	if err != nil {
		return err
	}
	if err := pc.DB.WithContext(c.UserContext()).Delete(p).Error; err != nil {
		return helper.Internal(err, "professors: delete")
	}
	return helper.JsonDeleted(c, "Professeur supprimé", fiber.Map{"id": p.ID})
}

// GET /api/public/professors
func (pc *ProfessorController) PublicList(c *fiber.Ctx) error {
	tx := pc.DB.WithContext(c.UserContext()).Where("is_active = ?", true)
	if m := strings.ToLower(c.Query("module")); m != "" {
		if !constants.IsContentModule(m) {
			return fiber.NewError(fiber.StatusBadRequest, constants.MsgUnknownModule)
		}
		tx = tx.Where("? = ANY(modules)", m)
	}
	var rows []model.ProfessorModel
	if err := tx.Order("full_name ASC").Find(&rows).Error; err != nil {
		return helper.Internal(err, "professors: public list")
	}
	return helper.JsonOK(c, "Professeurs", dto.ToPublic(rows))
}
