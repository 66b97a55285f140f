package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"erpr_backend/internals/constants"
	professorModel "erpr_backend/internals/features/professors/model"
	"erpr_backend/internals/features/sessions/model"
)

func TestCheckCancel(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	at := func(d time.Duration, status string) *model.SessionModel {
		return &model.SessionModel{StartsAt: now.Add(d), Status: status, DurationMinutes: 60}
	}

	tests := []struct {
		name    string
		sess    *model.SessionModel
		isAdmin bool
		want    error
	}{
		{"two days ahead", at(48*time.Hour, model.StatusScheduled), false, nil},
		{"exactly 24h", at(24*time.Hour, model.StatusScheduled), false, nil},
		{"23h ahead", at(23*time.Hour, model.StatusScheduled), false, ErrCancelTooLate},
		{"admin 1h ahead", at(time.Hour, model.StatusScheduled), true, nil},
		{"already canceled", at(72*time.Hour, model.StatusCanceled), false, ErrNotScheduled},
		{"admin completed", at(-time.Hour, model.StatusCompleted), true, ErrNotScheduled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, CheckCancel(tt.sess, tt.isAdmin, now), tt.want)
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	h := time.Hour

	assert.True(t, Overlaps(base, base.Add(h), base.Add(30*time.Minute), base.Add(2*h)))
	assert.True(t, Overlaps(base, base.Add(2*h), base.Add(30*time.Minute), base.Add(h)))
	// back to back is fine
	assert.False(t, Overlaps(base, base.Add(h), base.Add(h), base.Add(2*h)))
	assert.False(t, Overlaps(base.Add(2*h), base.Add(3*h), base, base.Add(h)))
}

func TestIsParticipant(t *testing.T) {
	student := uuid.New()
	profUser := uuid.New()
	sess := &model.SessionModel{
		UserID:    student,
		Professor: &professorModel.ProfessorModel{UserID: &profUser},
	}

	assert.True(t, IsParticipant(sess, Caller{UserID: student, Role: constants.RoleStudent}))
	assert.True(t, IsParticipant(sess, Caller{UserID: profUser, Role: constants.RoleProfessor}))
	assert.False(t, IsParticipant(sess, Caller{UserID: uuid.New(), Role: constants.RoleStudent}))

	sess.Professor = &professorModel.ProfessorModel{}
	assert.False(t, IsParticipant(sess, Caller{UserID: profUser, Role: constants.RoleProfessor}))
	assert.True(t, Caller{Role: constants.RoleAdmin}.IsAdmin())
}
