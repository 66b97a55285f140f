package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/homeworks/model"
)

func TestCheckResubmit(t *testing.T) {
	assert.NoError(t, CheckResubmit(nil))
	assert.NoError(t, CheckResubmit(&model.HomeworkSendModel{Status: model.SendToRedo}))
	assert.ErrorIs(t, CheckResubmit(&model.HomeworkSendModel{Status: model.SendPending}), ErrAlreadySent)
	assert.ErrorIs(t, CheckResubmit(&model.HomeworkSendModel{Status: model.SendCorrected}), ErrAlreadySent)
}

func TestCheckGrade(t *testing.T) {
	zero := 0
	assert.NoError(t, CheckGrade(model.SendCorrected, &zero))
	assert.ErrorIs(t, CheckGrade(model.SendCorrected, nil), ErrGradeRequired)
	assert.NoError(t, CheckGrade(model.SendToRedo, nil))
}

func TestCheckChapter(t *testing.T) {
	assert.NoError(t, CheckChapter(constants.ModuleErpr, 1))
	assert.NoError(t, CheckChapter(constants.ModuleErpr, configs.ErprChapterCount))
	assert.ErrorIs(t, CheckChapter(constants.ModuleErpr, 0), ErrChapterOutside)
	assert.ErrorIs(t, CheckChapter(constants.ModuleTajwid, configs.TajwidChapterCount+1), ErrChapterOutside)
}

func TestTables(t *testing.T) {
	hw, sends := model.Tables(constants.ModuleErpr)
	assert.Equal(t, "homeworks", hw)
	assert.Equal(t, "homework_sends", sends)

	hw, sends = model.Tables(constants.ModuleTajwid)
	assert.Equal(t, "tajwid_homeworks", hw)
	assert.Equal(t, "tajwid_homework_sends", sends)
}
