package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/access"
	"erpr_backend/internals/features/progress/dto"
	"erpr_backend/internals/features/progress/service"
	userModel "erpr_backend/internals/features/users/user/model"
	helper "erpr_backend/internals/helpers"
	authMiddleware "erpr_backend/internals/middlewares/auth"
)

type ProgressController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewProgressController(db *gorm.DB) *ProgressController {
	return &ProgressController{DB: db, Now: time.Now}
}

func (pc *ProgressController) reload(c *fiber.Ctx, id any) (*userModel.UserModel, error) {
	var u userModel.UserModel
	if err := pc.DB.WithContext(c.UserContext()).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, constants.MsgUnauthorized)
		}
		return nil, helper.Internal(err, "progress: reload user")
	}
	return &u, nil
}

// GET /api/u/progress
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Progression", service.BuildOverview(u))
}

// POST /api/u/progress/chapters
func (pc *ProgressController) CompleteChapter(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.CompleteChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return err
	}
	if count := configs.ChapterCount(req.Module); req.Chapter > count {
		return helper.JsonValidationError(c, map[string][]string{
			"chapter": {"Le chapitre doit être compris entre 1 et " + strconv.Itoa(count)},
		})
	}
	now := pc.Now()
	if !access.CanAccessChapter(u, req.Module, req.Chapter, now) {
		return fiber.NewError(fiber.StatusForbidden, constants.MsgChapterLocked)
	}

	if err := service.CompleteChapter(c.UserContext(), pc.DB, u.ID, req.Module, req.Chapter, now); err != nil {
		return helper.Internal(err, "progress: complete chapter")
	}
	fresh, err := pc.reload(c, u.ID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Chapitre validé", service.BuildOverview(fresh))
}

// POST /api/u/progress/study-time
func (pc *ProgressController) AddStudyTime(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.StudyTimeRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	if err := service.AddStudyTime(c.UserContext(), pc.DB, u.ID, req.Seconds, pc.Now()); err != nil {
		return helper.Internal(err, "progress: study time")
	}
	fresh, err := pc.reload(c, u.ID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Temps d'étude enregistré", fiber.Map{
		"study_time_seconds": fresh.StudyTimeSeconds,
		"last_study_at":      fresh.LastStudyAt,
	})
}
