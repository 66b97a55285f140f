//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/homeworks/dto"
	"erpr_backend/internals/features/homeworks/model"
	"erpr_backend/internals/features/notifications/email"
	"erpr_backend/internals/testutil/testdb"
)

func TestSendAndGradeAgainstPostgres(t *testing.T) {
	db := testdb.Start(t)
	ctx := context.Background()
	now := time.Now()

	mailer := email.NewConsoleMailer()
	svc := NewHomeworkService(db, mailer)

	open := &model.HomeworkModel{Chapter: 2, Title: "Les lettres solaires", IsPublished: true}
	locked := &model.HomeworkModel{Chapter: 8, Title: "La prolongation", IsPublished: true}
	require.NoError(t, svc.Create(ctx, constants.ModuleErpr, open))
	require.NoError(t, svc.Create(ctx, constants.ModuleErpr, locked))
	assert.ErrorIs(t, svc.Create(ctx, constants.ModuleErpr, &model.HomeworkModel{Chapter: 999, Title: "x"}), ErrChapterOutside)

	student := testdb.Student(t, db, testdb.Trial(now.Add(72*time.Hour)))
	grader := testdb.Student(t, db, nil)

	_, err := svc.Send(ctx, constants.ModuleErpr, open.ID, student, &dto.SendHomeworkRequest{})
	assert.ErrorIs(t, err, ErrEmptySend)

	first, err := svc.Send(ctx, constants.ModuleErpr, open.ID, student, &dto.SendHomeworkRequest{Content: "ma réponse"})
	require.NoError(t, err)
	assert.Equal(t, model.SendPending, first.Status)

	_, err = svc.Send(ctx, constants.ModuleErpr, open.ID, student, &dto.SendHomeworkRequest{Content: "encore"})
	assert.ErrorIs(t, err, ErrAlreadySent, "a pending send cannot be replaced")

	_, err = svc.Send(ctx, constants.ModuleErpr, locked.ID, student, &dto.SendHomeworkRequest{Content: "trop tôt"})
	assert.ErrorIs(t, err, ErrLocked, "trial students only reach the first chapters")

	feedback := "Revoir la règle"
	graded, err := svc.Grade(ctx, constants.ModuleErpr, first.ID, grader.ID,
		&dto.GradeSendRequest{Status: model.SendToRedo, Feedback: &feedback})
	require.NoError(t, err)
	assert.Equal(t, model.SendToRedo, graded.Status)
	assert.Equal(t, student.Email, graded.StudentEmail)

	again, err := svc.Send(ctx, constants.ModuleErpr, open.ID, student, &dto.SendHomeworkRequest{Content: "corrigée"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "the send is replaced in place")
	assert.Equal(t, model.SendPending, again.Status)
	assert.Equal(t, "corrigée", again.Content)
	assert.Nil(t, again.Feedback)
	assert.Nil(t, again.CorrectedBy)

	_, err = svc.Grade(ctx, constants.ModuleErpr, again.ID, grader.ID, &dto.GradeSendRequest{Status: model.SendCorrected})
	assert.ErrorIs(t, err, ErrGradeRequired)

	grade := 17
	_, err = svc.Grade(ctx, constants.ModuleErpr, again.ID, grader.ID,
		&dto.GradeSendRequest{Status: model.SendCorrected, Grade: &grade})
	require.NoError(t, err)

	_, err = svc.Send(ctx, constants.ModuleErpr, open.ID, student, &dto.SendHomeworkRequest{Content: "une de plus"})
	assert.ErrorIs(t, err, ErrAlreadySent, "a corrected send is final")

	gradedMails := 0
	for _, m := range mailer.Messages() {
		if m.Template == email.TplHomeworkGraded {
			gradedMails++
		}
	}
	assert.Equal(t, 2, gradedMails)

	items, err := svc.StudentList(ctx, constants.ModuleErpr, student)
	require.NoError(t, err)
	require.Len(t, items, 2)
}
