package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/features/access"
	"erpr_backend/internals/features/homeworks/dto"
	"erpr_backend/internals/features/homeworks/model"
	"erpr_backend/internals/features/notifications/email"
	userModel "erpr_backend/internals/features/users/user/model"
)

type HomeworkService struct {
	DB     *gorm.DB
	Mailer email.Mailer
	Now    func() time.Time
}

func NewHomeworkService(db *gorm.DB, mailer email.Mailer) *HomeworkService {
	return &HomeworkService{DB: db, Mailer: mailer, Now: time.Now}
}

func (s *HomeworkService) homeworks(ctx context.Context, module string) *gorm.DB {
	t, _ := model.Tables(module)
	return s.DB.WithContext(ctx).Table(t)
}

func (s *HomeworkService) sends(ctx context.Context, module string) *gorm.DB {
	_, t := model.Tables(module)
	return s.DB.WithContext(ctx).Table(t)
}

func CheckChapter(module string, chapter int) error {
	if chapter < 1 || chapter > configs.ChapterCount(module) {
		return ErrChapterOutside
	}
	return nil
}

/* =======================================================
   ADMIN
   ======================================================= */

func (s *HomeworkService) Create(ctx context.Context, module string, h *model.HomeworkModel) error {
	if err := CheckChapter(module, h.Chapter); err != nil {
		return err
	}
	return s.homeworks(ctx, module).Create(h).Error
}

func (s *HomeworkService) Get(ctx context.Context, module string, id uuid.UUID) (*model.HomeworkModel, error) {
	var h model.HomeworkModel
	if err := s.homeworks(ctx, module).Where("id = ?", id).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns homeworks ordered by chapter; publishedOnly hides drafts.
func (s *HomeworkService) List(ctx context.Context, module string, publishedOnly bool, chapter int, offset, limit int) ([]model.HomeworkModel, int64, error) {
	tx := s.homeworks(ctx, module).Where("deleted_at IS NULL")
	if publishedOnly {
		tx = tx.Where("is_published = ?", true)
	}
	if chapter > 0 {
		tx = tx.Where("chapter = ?", chapter)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.HomeworkModel
	q := tx.Order("chapter ASC, created_at ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *HomeworkService) Update(ctx context.Context, module string, h *model.HomeworkModel, updates map[string]any) error {
	if ch, ok := updates["chapter"].(int); ok {
		if err := CheckChapter(module, ch); err != nil {
			return err
		}
	}
	updates["updated_at"] = s.Now().UTC()
	if err := s.homeworks(ctx, module).Where("id = ?", h.ID).Updates(updates).Error; err != nil {
		return err
	}
	fresh, err := s.Get(ctx, module, h.ID)
	if err != nil {
		return err
	}
	*h = *fresh
	return nil
}

func (s *HomeworkService) Delete(ctx context.Context, module string, id uuid.UUID) error {
	res := s.homeworks(ctx, module).Where("id = ?", id).Delete(&model.HomeworkModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

/* =======================================================
   STUDENT
   ======================================================= */

// MySends maps homework id to the user's send for the given homeworks (all when ids is nil).
func (s *HomeworkService) MySends(ctx context.Context, module string, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*model.HomeworkSendModel, error) {
	tx := s.sends(ctx, module).Where("user_id = ?", userID)
	if ids != nil {
		if len(ids) == 0 {
			return map[uuid.UUID]*model.HomeworkSendModel{}, nil
		}
		tx = tx.Where("homework_id IN ?", ids)
	}
	var rows []model.HomeworkSendModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*model.HomeworkSendModel, len(rows))
	for i := range rows {
		out[rows[i].HomeworkID] = &rows[i]
	}
	return out, nil
}

// StudentList returns every published homework with the caller's lock flag and send status.
func (s *HomeworkService) StudentList(ctx context.Context, module string, u *userModel.UserModel) ([]dto.HomeworkItem, error) {
	rows, _, err := s.List(ctx, module, true, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, h := range rows {
		ids = append(ids, h.ID)
	}
	mine, err := s.MySends(ctx, module, u.ID, ids)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	out := make([]dto.HomeworkItem, 0, len(rows))
	for i := range rows {
		h := &rows[i]
		locked := !access.CanAccessChapter(u, module, h.Chapter, now)
		out = append(out, dto.NewHomeworkItem(h, locked, mine[h.ID]))
	}
	return out, nil
}

// PublishedForStudent loads a published homework and enforces chapter access.
func (s *HomeworkService) PublishedForStudent(ctx context.Context, module string, id uuid.UUID, u *userModel.UserModel) (*model.HomeworkModel, error) {
	h, err := s.Get(ctx, module, id)
	if err != nil {
		return nil, err
	}
	if !h.IsPublished {
		return nil, ErrNotFound
	}
	if !access.CanAccessChapter(u, module, h.Chapter, s.Now()) {
		return nil, ErrLocked
	}
	return h, nil
}

// Send creates the user's send, or replaces one marked to_redo. The existing
// row is locked so two concurrent sends cannot both pass the check.
func (s *HomeworkService) Send(ctx context.Context, module string, homeworkID uuid.UUID, u *userModel.UserModel, req *dto.SendHomeworkRequest) (*model.HomeworkSendModel, error) {
	if req.Empty() {
		return nil, ErrEmptySend
	}
	if _, err := s.PublishedForStudent(ctx, module, homeworkID, u); err != nil {
		return nil, err
	}
	_, table := model.Tables(module)

	var out model.HomeworkSendModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.HomeworkSendModel
		err := tx.Table(table).Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("homework_id = ? AND user_id = ?", homeworkID, u.ID).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = model.HomeworkSendModel{
				HomeworkID:  homeworkID,
				UserID:      u.ID,
				Content:     req.Content,
				Attachments: req.BuildAttachments(),
				AudioURL:    req.AudioURL,
				Status:      model.SendPending,
			}
			return tx.Table(table).Create(&out).Error
		case err != nil:
			return err
		}

		if err := CheckResubmit(&existing); err != nil {
			return err
		}
		if err := tx.Table(table).Where("id = ?", existing.ID).Updates(map[string]any{
			"content":      req.Content,
			"attachments":  datatypes.JSONSlice[model.Attachment](req.BuildAttachments()),
			"audio_url":    req.AudioURL,
			"status":       model.SendPending,
			"grade":        nil,
			"feedback":     nil,
			"corrected_by": nil,
			"corrected_at": nil,
			"updated_at":   s.Now().UTC(),
		}).Error; err != nil {
			return err
		}
		return tx.Table(table).Where("id = ?", existing.ID).First(&out).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadySent
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =======================================================
   GRADING
   ======================================================= */

func (s *HomeworkService) ListSends(ctx context.Context, module string, q dto.ListSendsQuery, offset, limit int) ([]dto.SendResponse, int64, error) {
	tx := s.sends(ctx, module)
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.HomeworkID != "" {
		tx = tx.Where("homework_id = ?", q.HomeworkID)
	}
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.HomeworkSendModel
	if err := tx.Order("created_at ASC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out, err := s.decorate(ctx, module, rows)
	return out, total, err
}

// decorate attaches homework title/chapter and student name to sends.
func (s *HomeworkService) decorate(ctx context.Context, module string, rows []model.HomeworkSendModel) ([]dto.SendResponse, error) {
	hwIDs := make([]uuid.UUID, 0, len(rows))
	userIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		hwIDs = append(hwIDs, r.HomeworkID)
		userIDs = append(userIDs, r.UserID)
	}

	hws := map[uuid.UUID]model.HomeworkModel{}
	users := map[uuid.UUID]userModel.UserModel{}
	if len(rows) > 0 {
		var hwRows []model.HomeworkModel
		if err := s.homeworks(ctx, module).Unscoped().Where("id IN ?", hwIDs).Find(&hwRows).Error; err != nil {
			return nil, err
		}
		for _, h := range hwRows {
			hws[h.ID] = h
		}
		var userRows []userModel.UserModel
		if err := s.DB.WithContext(ctx).Unscoped().Where("id IN ?", userIDs).Find(&userRows).Error; err != nil {
			return nil, err
		}
		for _, u := range userRows {
			users[u.ID] = u
		}
	}

	out := make([]dto.SendResponse, 0, len(rows))
	for _, r := range rows {
		resp := dto.SendResponse{HomeworkSendModel: r, Module: module}
		if h, ok := hws[r.HomeworkID]; ok {
			resp.Chapter, resp.Title = h.Chapter, h.Title
		}
		if u, ok := users[r.UserID]; ok {
			resp.StudentName, resp.StudentEmail = u.FullName, u.Email
		}
		out = append(out, resp)
	}
	return out, nil
}

// Grade records the correction and emails the student after commit.
func (s *HomeworkService) Grade(ctx context.Context, module string, sendID, graderID uuid.UUID, req *dto.GradeSendRequest) (*dto.SendResponse, error) {
	if err := CheckGrade(req.Status, req.Grade); err != nil {
		return nil, err
	}
	now := s.Now().UTC()
	var send model.HomeworkSendModel
	if err := s.sends(ctx, module).Where("id = ?", sendID).First(&send).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSendNotFound
		}
		return nil, err
	}

	updates := map[string]any{
		"status":       req.Status,
		"grade":        req.Grade,
		"feedback":     req.Feedback,
		"corrected_by": graderID,
		"corrected_at": now,
		"updated_at":   now,
	}
	if err := s.sends(ctx, module).Where("id = ?", sendID).Updates(updates).Error; err != nil {
		return nil, err
	}
	send.Status, send.Grade, send.Feedback = req.Status, req.Grade, req.Feedback
	send.CorrectedBy, send.CorrectedAt, send.UpdatedAt = &graderID, &now, now

	decorated, err := s.decorate(ctx, module, []model.HomeworkSendModel{send})
	if err != nil {
		return nil, err
	}
	resp := decorated[0]
	s.notifyGraded(ctx, &resp)
	return &resp, nil
}

func (s *HomeworkService) notifyGraded(ctx context.Context, r *dto.SendResponse) {
	if r.StudentEmail == "" {
		return
	}
	status := "corrigé"
	if r.Status == model.SendToRedo {
		status = "à refaire"
	}
	grade, feedback := "", ""
	if r.Grade != nil {
		grade = strconv.Itoa(*r.Grade)
	}
	if r.Feedback != nil {
		feedback = *r.Feedback
	}
	email.Notify(ctx, s.Mailer, email.TplHomeworkGraded, email.Addr(r.StudentName, r.StudentEmail), map[string]any{
		"Title":    r.Title,
		"Module":   r.Module,
		"Chapter":  r.Chapter,
		"Status":   status,
		"Grade":    grade,
		"Feedback": feedback,
	})
}
