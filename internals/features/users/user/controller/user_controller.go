package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/access"
	"erpr_backend/internals/features/users/user/dto"
	"erpr_backend/internals/features/users/user/model"
	helper "erpr_backend/internals/helpers"
	authMiddleware "erpr_backend/internals/middlewares/auth"
)

type UserController struct {
	DB      *gorm.DB
	Storage helper.Storage
}

func NewUserController(db *gorm.DB, storage helper.Storage) *UserController {
	return &UserController{DB: db, Storage: storage}
}

const avatarBucket = "image"

// GET /api/u/me
func (uc *UserController) Me(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Profil", dto.NewMeResponse(u, time.Now()))
}

// GET /api/u/subscription
func (uc *UserController) Subscription(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Accès", access.BuildSummary(u, time.Now()))
}

// PATCH /api/u/me
func (uc *UserController) UpdateMe(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateMeRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	req.Normalize()

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.UserName != nil && !strings.EqualFold(*req.UserName, u.UserName) {
		var n int64
		if err := uc.DB.WithContext(c.UserContext()).Model(&model.UserModel{}).
			Where("lower(user_name) = ? AND id <> ?", strings.ToLower(*req.UserName), u.ID).
			Count(&n).Error; err != nil {
			return helper.Internal(err, "update me: user_name lookup")
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ce nom d'utilisateur est déjà pris")
		}
		updates["user_name"] = *req.UserName
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Aucune modification", dto.FromModel(u))
	}

	if err := uc.DB.WithContext(c.UserContext()).Model(u).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "Ce nom d'utilisateur est déjà pris")
		}
		return helper.Internal(err, "update me")
	}
	return helper.JsonUpdated(c, "Profil mis à jour", dto.FromModel(u))
}

// POST /api/u/me/avatar (multipart "file")
func (uc *UserController) UploadAvatar(c *fiber.Ctx) error {
	u, err := authMiddleware.CurrentUser(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Fichier 'file' manquant")
	}

	buf, err := helper.ConvertAvatarToWebP(fh)
	if err != nil {
		if errors.Is(err, helper.ErrImageTooLarge) {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
		}
		if errors.Is(err, helper.ErrImageType) {
			return fiber.NewError(fiber.StatusUnsupportedMediaType, err.Error())
		}
		return helper.Internal(err, "avatar: convert")
	}

	path := helper.GenerateUniqueFilename("avatars/"+u.ID.String(), "avatar.webp")
	url, err := uc.Storage.Upload(c.UserContext(), avatarBucket, path, "image/webp", buf)
	if err != nil {
		if errors.Is(err, helper.ErrStorageNotConfigured) {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return helper.Internal(err, "avatar: upload")
	}

	old := u.AvatarURL
	if err := uc.DB.WithContext(c.UserContext()).Model(u).Update("avatar_url", url).Error; err != nil {
		return helper.Internal(err, "avatar: save")
	}
	if old != nil {
		helper.DeleteStoredObject(c.UserContext(), uc.Storage, *old)
	}
	return helper.JsonUpdated(c, "Photo de profil mise à jour", fiber.Map{"avatar_url": url})
}

/* =======================================================
   ADMIN
   ======================================================= */

func (uc *UserController) filteredUsers(c *fiber.Ctx) (*gorm.DB, error) {
	var q dto.ListUsersQuery
	if err := c.QueryParser(&q); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	if err := helper.ValidateStruct(&q); err != nil {
		return nil, err
	}
	tx := uc.DB.WithContext(c.UserContext()).Model(&model.UserModel{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("full_name ILIKE ? OR email ILIKE ? OR user_name ILIKE ?", like, like, like)
	}
	if q.Role != "" {
		tx = tx.Where("role = ?", q.Role)
	}
	if q.SubscriptionStatus != "" {
		tx = tx.Where("subscription_status = ?", q.SubscriptionStatus)
	}
	return tx, nil
}

// GET /api/a/users
func (uc *UserController) List(c *fiber.Ctx) error {
	tx, err := uc.filteredUsers(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Internal(err, "users: count")
	}
	var users []model.UserModel
	if err := tx.Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&users).Error; err != nil {
		return helper.Internal(err, "users: list")
	}
	return helper.JsonList(c, "Utilisateurs", dto.FromModels(users), helper.BuildPagination(total, p, len(users)))
}

func (uc *UserController) find(c *fiber.Ctx) (*model.UserModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var u model.UserModel
	if err := uc.DB.WithContext(c.UserContext()).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Utilisateur introuvable")
		}
		return nil, helper.Internal(err, "users: get")
	}
	return &u, nil
}

// GET /api/a/users/:id
func (uc *UserController) Get(c *fiber.Ctx) error {
	u, err := uc.find(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Utilisateur", dto.NewMeResponse(u, time.Now()))
}

// PATCH /api/a/users/:id
func (uc *UserController) Update(c *fiber.Ctx) error {
	u, err := uc.find(c)
	if err != nil {
		return err
	}
	var req dto.AdminUpdateUserRequest
	if err := helper.ParseAndValidate(c, &req); err != nil {
		return err
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.JsonOK(c, "Aucune modification", dto.FromModel(u))
	}
	if err := uc.DB.WithContext(c.UserContext()).Model(u).Updates(updates).Error; err != nil {
		return helper.Internal(err, "users: update")
	}
	return helper.JsonUpdated(c, "Utilisateur mis à jour", dto.FromModel(u))
}

// DELETE /api/a/users/:id (soft delete)
func (uc *UserController) Delete(c *fiber.Ctx) error {
	u, err := uc.find(c)
	if err != nil {
		return err
	}
	if caller, _ := helper.GetUserIDFromToken(c); caller == u.ID {
		return fiber.NewError(fiber.StatusBadRequest, "Vous ne pouvez pas supprimer votre propre compte")
	}
	if err := uc.DB.WithContext(c.UserContext()).Delete(u).Error; err != nil {
		return helper.Internal(err, "users: delete")
	}
	return helper.JsonDeleted(c, "Utilisateur supprimé", fiber.Map{"id": u.ID})
}

// GET /api/a/users/export
func (uc *UserController) Export(c *fiber.Ctx) error {
	tx, err := uc.filteredUsers(c)
	if err != nil {
		return err
	}
	var users []model.UserModel
	if err := tx.Order("created_at ASC").Find(&users).Error; err != nil {
		return helper.Internal(err, "users: export")
	}

	headers := []string{"ID", "Nom d'utilisateur", "Email", "Nom complet", "Rôle", "Actif",
		"Statut abonnement", "Module", "Formule", "Fin abonnement", "Fin essai", "Temps d'étude (min)", "Inscription"}
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, []any{
			u.ID.String(), u.UserName, u.Email, u.FullName, u.Role, u.IsActive,
			u.SubscriptionStatus, deref(u.SubscriptionModule), deref(u.SubscriptionPlan),
			helper.FormatTime(u.SubscriptionEndsAt), helper.FormatTime(u.TrialEndsAt),
			u.StudyTimeSeconds / 60, u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	buf, err := helper.BuildXLSX("Utilisateurs", headers, rows)
	if err != nil {
		return helper.Internal(err, "users: xlsx")
	}
	return helper.SendXLSX(c, "utilisateurs", buf)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
