package service

import (
	"errors"
	"time"

	"erpr_backend/internals/features/sessions/model"
)

const (
	// CancelNotice is how long before starts_at a non-admin may still cancel.
	CancelNotice = 24 * time.Hour
	// MaxDurationMinutes is the longest bookable session.
	MaxDurationMinutes = 180
)

var (
	ErrNotScheduled     = errors.New("session is not scheduled")
	ErrCancelTooLate    = errors.New("session starts in less than 24h")
	ErrStartsInPast     = errors.New("session starts in the past")
	ErrOverlap          = errors.New("session overlaps another scheduled session")
	ErrProfessorInvalid = errors.New("professor inactive or not teaching module")
	ErrStudentInvalid   = errors.New("student not found")
	ErrNoSubscription   = errors.New("student has no active subscription")
	ErrNotParticipant   = errors.New("caller is not a participant")
	ErrNotFound         = errors.New("session not found")
)

// CheckCancel applies the status and notice rules; admins skip the notice.
func CheckCancel(s *model.SessionModel, isAdmin bool, now time.Time) error {
	if s.Status != model.StatusScheduled {
		return ErrNotScheduled
	}
	if isAdmin {
		return nil
	}
	if s.StartsAt.Sub(now) < CancelNotice {
		return ErrCancelTooLate
	}
	return nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
