package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/access"
	"erpr_backend/internals/features/notifications/email"
	professorModel "erpr_backend/internals/features/professors/model"
	"erpr_backend/internals/features/sessions/model"
	userModel "erpr_backend/internals/features/users/user/model"
	"erpr_backend/internals/logging"
)

type SessionService struct {
	DB     *gorm.DB
	Mailer email.Mailer
	Now    func() time.Time
}

func NewSessionService(db *gorm.DB, mailer email.Mailer) *SessionService {
	return &SessionService{DB: db, Mailer: mailer, Now: time.Now}
}

// Caller identifies who acts on a session.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

func (c Caller) IsAdmin() bool { return c.Role == constants.RoleAdmin }

func withParties(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Professor", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Cancellation")
}

func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*model.SessionModel, error) {
	var out model.SessionModel
	if err := withParties(s.DB.WithContext(ctx)).First(&out, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// overlapping counts scheduled sessions of the professor or the student intersecting [start, end).
// Sessions last at most MaxDurationMinutes, which bounds the candidate window.
func overlapping(tx *gorm.DB, professorID, userID uuid.UUID, start, end time.Time, exclude *uuid.UUID) (int64, error) {
	q := tx.Model(&model.SessionModel{}).
		Select("id", "starts_at", "duration_minutes").
		Where("status = ?", model.StatusScheduled).
		Where("(professor_id = ? OR user_id = ?)", professorID, userID).
		Where("starts_at < ? AND starts_at > ?", end, start.Add(-MaxDurationMinutes*time.Minute))
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var candidates []model.SessionModel
	if err := q.Find(&candidates).Error; err != nil {
		return 0, err
	}
	var n int64
	for i := range candidates {
		if Overlaps(candidates[i].StartsAt, candidates[i].EndsAt(), start, end) {
			n++
		}
	}
	return n, nil
}

// Create books a session. The professor and student rows are locked so two
// concurrent bookings sharing either party are checked one after the other.
func (s *SessionService) Create(ctx context.Context, in *model.SessionModel) error {
	now := s.Now()
	if !in.StartsAt.After(now) {
		return ErrStartsInPast
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prof professorModel.ProfessorModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&prof, "id = ?", in.ProfessorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfessorInvalid
			}
			return err
		}
		if !prof.IsActive || !prof.Teaches(in.Module) {
			return ErrProfessorInvalid
		}

		var student userModel.UserModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&student, "id = ?", in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentInvalid
			}
			return err
		}
		if !student.IsActive {
			return ErrStudentInvalid
		}
		if !access.CanBookSessions(&student, now) || !access.CoversModule(&student, in.Module) {
			return ErrNoSubscription
		}

		n, err := overlapping(tx, in.ProfessorID, in.UserID, in.StartsAt, in.EndsAt(), nil)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrOverlap
		}
		in.Status = model.StatusScheduled
		if err := tx.Create(in).Error; err != nil {
			return err
		}
		in.Professor = &prof
		in.User = &student
		return nil
	})
}

// Reschedule saves edits; a time change re-runs the overlap check.
func (s *SessionService) Reschedule(ctx context.Context, sess *model.SessionModel, timeChanged bool) error {
	now := s.Now()
	if timeChanged {
		if sess.Status != model.StatusScheduled {
			return ErrNotScheduled
		}
		if !sess.StartsAt.After(now) {
			return ErrStartsInPast
		}
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if timeChanged {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&professorModel.ProfessorModel{}, "id = ?", sess.ProfessorID).Error; err != nil &&
				!errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&userModel.UserModel{}, "id = ?", sess.UserID).Error; err != nil &&
				!errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			n, err := overlapping(tx, sess.ProfessorID, sess.UserID, sess.StartsAt, sess.EndsAt(), &sess.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrOverlap
			}
		}
		return tx.Model(sess).Select("starts_at", "duration_minutes", "meeting_url", "notes", "reminder_sent_at").
			Updates(map[string]any{
				"starts_at":        sess.StartsAt,
				"duration_minutes": sess.DurationMinutes,
				"meeting_url":      sess.MeetingURL,
				"notes":            sess.Notes,
				"reminder_sent_at": sess.ReminderSentAt,
			}).Error
	})
}

func (s *SessionService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&model.SessionModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsParticipant reports whether the caller is the student or the linked professor.
func IsParticipant(sess *model.SessionModel, caller Caller) bool {
	if sess.UserID == caller.UserID {
		return true
	}
	return sess.Professor != nil && sess.Professor.UserID != nil && *sess.Professor.UserID == caller.UserID
}

// Cancel locks the session row, re-checks the rules and records the cancellation.
// The other party is emailed once the transaction has committed.
func (s *SessionService) Cancel(ctx context.Context, id uuid.UUID, caller Caller, reason *string) (*model.SessionModel, error) {
	now := s.Now()
	var sess model.SessionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sess, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var prof professorModel.ProfessorModel
		if err := tx.Unscoped().First(&prof, "id = ?", sess.ProfessorID).Error; err == nil {
			sess.Professor = &prof
		}
		if !caller.IsAdmin() && !IsParticipant(&sess, caller) {
			return ErrNotParticipant
		}
		if err := CheckCancel(&sess, caller.IsAdmin(), now); err != nil {
			return err
		}

		c := &model.SessionCancellationModel{
			SessionID:      sess.ID,
			CanceledBy:     caller.UserID,
			CanceledByRole: caller.Role,
			Reason:         reason,
		}
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if err := tx.Model(&sess).Update("status", model.StatusCanceled).Error; err != nil {
			return err
		}
		sess.Status = model.StatusCanceled
		sess.Cancellation = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	var student userModel.UserModel
	if err := s.DB.WithContext(ctx).Unscoped().First(&student, "id = ?", sess.UserID).Error; err == nil {
		sess.User = &student
	}
	s.notifyCanceled(ctx, &sess, caller, reason)
	return &sess, nil
}

func (s *SessionService) notifyCanceled(ctx context.Context, sess *model.SessionModel, caller Caller, reason *string) {
	by := "l'administration"
	switch caller.Role {
	case constants.RoleProfessor:
		by = "votre professeur"
	case constants.RoleStudent:
		by = "l'élève"
	}
	data := map[string]any{
		"Module":   sess.Module,
		"StartsAt": email.FormatDate(sess.StartsAt),
		"By":       by,
		"Reason":   "",
	}
	if reason != nil {
		data["Reason"] = *reason
	}

	if sess.User != nil && sess.User.ID != caller.UserID {
		email.Notify(ctx, s.Mailer, email.TplSessionCanceled, email.Addr(sess.User.FullName, sess.User.Email), data)
	}
	if p := sess.Professor; p != nil && (p.UserID == nil || *p.UserID != caller.UserID) {
		email.Notify(ctx, s.Mailer, email.TplSessionCanceled, email.Addr(p.FullName, p.Email), data)
	}
}

// CompleteDue marks scheduled sessions whose end has passed as completed.
func (s *SessionService) CompleteDue(ctx context.Context, now time.Time) (int, error) {
	res := s.DB.WithContext(ctx).Model(&model.SessionModel{}).
		Where("status = ?", model.StatusScheduled).
		Where("starts_at + duration_minutes * interval '1 minute' <= ?", now.UTC()).
		Update("status", model.StatusCompleted)
	return int(res.RowsAffected), res.Error
}

// SendReminders emails both parties of sessions starting within 24h.
// Each session is claimed by setting reminder_sent_at before sending.
func (s *SessionService) SendReminders(ctx context.Context, now time.Time) (processed, failed int, err error) {
	var due []model.SessionModel
	if err := withParties(s.DB.WithContext(ctx)).
		Where("status = ? AND reminder_sent_at IS NULL", model.StatusScheduled).
		Where("starts_at > ? AND starts_at <= ?", now.UTC(), now.Add(24*time.Hour).UTC()).
		Order("starts_at ASC").
		Find(&due).Error; err != nil {
		return 0, 0, err
	}

	for i := range due {
		sess := &due[i]
		res := s.DB.WithContext(ctx).Model(&model.SessionModel{}).
			Where("id = ? AND reminder_sent_at IS NULL", sess.ID).
			Update("reminder_sent_at", now.UTC())
		if res.Error != nil {
			failed++
			logging.L().Warnw("session reminder claim failed", "session_id", sess.ID, "error", res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}
		if err := s.remind(ctx, sess); err != nil {
			failed++
			logging.L().Warnw("session reminder not sent", "session_id", sess.ID, "error", err)
			continue
		}
		processed++
	}
	return processed, failed, nil
}

func (s *SessionService) remind(ctx context.Context, sess *model.SessionModel) error {
	meeting := ""
	if sess.MeetingURL != nil {
		meeting = *sess.MeetingURL
	}
	base := map[string]any{
		"Module":     sess.Module,
		"StartsAt":   email.FormatDate(sess.StartsAt),
		"Duration":   sess.DurationMinutes,
		"MeetingURL": meeting,
	}
	with := func(name string) map[string]any {
		m := make(map[string]any, len(base)+1)
		for k, v := range base {
			m[k] = v
		}
		m["With"] = name
		return m
	}

	var errs []error
	if sess.User != nil && sess.Professor != nil {
		errs = append(errs, email.Deliver(ctx, s.Mailer, email.TplSessionReminder,
			email.Addr(sess.User.FullName, sess.User.Email), with(sess.Professor.FullName)))
	}
	if sess.Professor != nil && sess.User != nil {
		student := sess.User.FullName
		if student == "" {
			student = sess.User.UserName
		}
		errs = append(errs, email.Deliver(ctx, s.Mailer, email.TplSessionReminder,
			email.Addr(sess.Professor.FullName, sess.Professor.Email), with(student)))
	}
	return errors.Join(errs...)
}

// ProfessorForUser returns the professor profile linked to a login account.
func (s *SessionService) ProfessorForUser(ctx context.Context, userID uuid.UUID) (*professorModel.ProfessorModel, error) {
	var p professorModel.ProfessorModel
	if err := s.DB.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Base returns an unfiltered session query; counts run on it before WithParties is applied.
func (s *SessionService) Base(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Model(&model.SessionModel{})
}

func WithParties(tx *gorm.DB) *gorm.DB {
	return withParties(tx)
}
