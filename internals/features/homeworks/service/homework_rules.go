package service

import (
	"errors"

	"erpr_backend/internals/features/homeworks/model"
)

var (
	ErrAlreadySent    = errors.New("homework already sent")
	ErrGradeRequired  = errors.New("grade required when corrected")
	ErrEmptySend      = errors.New("empty send")
	ErrNotFound       = errors.New("homework not found")
	ErrSendNotFound   = errors.New("send not found")
	ErrLocked         = errors.New("chapter locked")
	ErrChapterOutside = errors.New("chapter out of range")
)

// CheckResubmit allows a first send, or a new send over one marked to_redo.
func CheckResubmit(existing *model.HomeworkSendModel) error {
	if existing == nil || existing.Status == model.SendToRedo {
		return nil
	}
	return ErrAlreadySent
}

// CheckGrade requires a grade in 0..20 for corrected sends.
func CheckGrade(status string, grade *int) error {
	if status == model.SendCorrected && grade == nil {
		return ErrGradeRequired
	}
	return nil
}
