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
	"erpr_backend/internals/features/videos/dto"
	"erpr_backend/internals/features/videos/model"
	helper "erpr_backend/internals/helpers"
	authMiddleware "erpr_backend/internals/middlewares/auth"
)

const (
	msgVideoNotFound  = "Vidéo introuvable"
	msgVideoDuplicate = "Une vidéo existe déjà pour ce chapitre"
)

type VideoController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewVideoController(db *gorm.DB) *VideoController {
	return &VideoController{DB: db, Now: time.Now}
}

func (vc *VideoController) table(c *fiber.Ctx) *gorm.DB {
	return vc.DB.WithContext(c.UserContext()).Table(model.Table(authMiddleware.Module(c)))
}

func (vc *VideoController) checkChapter(c *fiber.Ctx, chapter int) error {
	count := configs.ChapterCount(authMiddleware.Module(c))
	if chapter < 1 || chapter > count {
		return helper.JsonValidationError(c, map[string][]string{
			"chapter": {"Le chapitre doit être compris entre 1 et " + strconv.Itoa(count)},
		})
	}
	return nil
}

func (vc *VideoController) chapterTaken(c *fiber.Ctx, chapter int, exclude any) (bool, error) {
	q := vc.table(c).Where("chapter = ?", chapter)
	if exclude != nil {
		q = q.Where("id <> ?", exclude)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

/* =======================================================
   ADMIN  /api/a/videos/:module
   ======================================================= */

func (vc *VideoController) Create(c *fiber.Ctx) error {
	var req dto.CreateVideoRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	if err := vc.checkChapter(c, req.Chapter); err != nil {
		return err
	}
	taken, err := vc.chapterTaken(c, req.Chapter, nil)
	if err != nil {
		return helper.Internal(err, "videos: chapter check")
	}
	if taken {
		return fiber.NewError(fiber.StatusConflict, msgVideoDuplicate)
	}
	v := req.ToModel()
	if err := vc.table(c).Create(v).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, msgVideoDuplicate)
		}
		return helper.Internal(err, "videos: create")
	}
	return helper.JsonCreated(c, "Vidéo ajoutée", v)
}

func (vc *VideoController) List(c *fiber.Ctx) error {
	var rows []model.ChapterVideoModel
	if err := vc.table(c).Order("chapter ASC").Find(&rows).Error; err != nil {
		return helper.Internal(err, "videos: list")
	}
	return helper.JsonOK(c, "Vidéos", rows)
}

func (vc *VideoController) find(c *fiber.Ctx) (*model.ChapterVideoModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var v model.ChapterVideoModel
	if err := vc.table(c).Where("id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, msgVideoNotFound)
		}
		return nil, helper.Internal(err, "videos: get")
	}
	return &v, nil
}

func (vc *VideoController) Get(c *fiber.Ctx) error {
	v, err := vc.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Vidéo", v)
}

func (vc *VideoController) Update(c *fiber.Ctx) error {
	v, err := vc.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateVideoRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.JsonOK(c, "Aucune modification", v)
	}
	if req.Chapter != nil && *req.Chapter != v.Chapter {
		if err := vc.checkChapter(c, *req.Chapter); err != nil {
			return err
		}
		taken, err := vc.chapterTaken(c, *req.Chapter, v.ID)
		if err != nil {
			return helper.Internal(err, "videos: chapter check")
		}
		if taken {
			return fiber.NewError(fiber.StatusConflict, msgVideoDuplicate)
		}
	}
	updates["updated_at"] = vc.Now().UTC()
	if err := vc.table(c).Where("id = ?", v.ID).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, msgVideoDuplicate)
		}
		return helper.Internal(err, "videos: update")
	}
	if err := vc.table(c).Where("id = ?", v.ID).First(v).Error; err != nil {
		return helper.Internal(err, "videos: reload")
	}
	return helper.JsonUpdated(c, "Vidéo mise à jour", v)
}

func (vc *VideoController) Delete(c *fiber.Ctx) error {
	v, err := vc.find(c)
	if err != nil {
		return err
	}
	if err := vc.table(c).Where("id = ?", v.ID).Delete(&model.ChapterVideoModel{}).Error; err != nil {
		return helper.Internal(err, "videos: delete")
	}
	return helper.JsonDeleted(c, "Vidéo supprimée", fiber.Map{"id": v.ID})
}

/* =======================================================
   STUDENT  /api/u/videos/:module
   ======================================================= */

func (vc *VideoController) StudentList(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	module := authMiddleware.Module(c)
	var rows []model.ChapterVideoModel
	if err := vc.table(c).Order("chapter ASC").Find(&rows).Error; err != nil {
		return helper.Internal(err, "videos: student list")
	}
	now := vc.Now()
	items := dto.Catalogue(configs.ChapterCount(module), rows, u.CompletedChapters(module), func(ch int) bool {
		return !access.CanAccessChapter(u, module, ch, now)
	})
	return helper.JsonOK(c, "Chapitres", items)
}

func (vc *VideoController) StudentGet(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	module := authMiddleware.Module(c)
	chapter, err := helper.ParseIntParam(c, "chapter")
	if err != nil {
		return err
	}
	if chapter < 1 || chapter > configs.ChapterCount(module) {
		return fiber.NewError(fiber.StatusNotFound, msgVideoNotFound)
	}
	if !access.CanAccessChapter(u, module, chapter, vc.Now()) {
		return fiber.NewError(fiber.StatusForbidden, constants.MsgChapterLocked)
	}
	var v model.ChapterVideoModel
	if err := vc.table(c).Where("chapter = ?", chapter).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, msgVideoNotFound)
		}
		return helper.Internal(err, "videos: student get")
	}
	done := false
	for _, ch := range u.CompletedChapters(module) {
		if ch == int64(chapter) {
			done = true
			break
		}
	}
	return helper.JsonOK(c, "Vidéo", dto.NewChapterItem(chapter, &v, false, done))
}
