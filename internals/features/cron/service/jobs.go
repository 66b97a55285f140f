package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/features/notifications/email"
	progressService "erpr_backend/internals/features/progress/service"
	sessionService "erpr_backend/internals/features/sessions/service"
	authModel "erpr_backend/internals/features/users/auth/model"
	authRepo "erpr_backend/internals/features/users/auth/repository"
	userModel "erpr_backend/internals/features/users/user/model"
	"erpr_backend/internals/logging"
	"erpr_backend/internals/observability"
)

const (
	JobProgressSnapshots       = "progress-snapshots"
	JobTrialReminders          = "trial-reminders"
	JobTrialExpirations        = "trial-expirations"
	JobSubscriptionExpirations = "subscription-expirations"
	JobSessionReminders        = "session-reminders"
	JobSessionsComplete        = "sessions-complete"
	JobTokenCleanup            = "token-cleanup"
)

const (
	// TrialReminderWindow is how long before trial_ends_at the reminder goes out.
	TrialReminderWindow = 48 * time.Hour
	// JobTimeout bounds one run, whether triggered over HTTP or in-process.
	JobTimeout = 5 * time.Minute
)

var ErrUnknownJob = errors.New("unknown job")

type Result struct {
	Job        string `json:"job"`
	Processed  int    `json:"processed"`
	Failed     int    `json:"failed"`
	DurationMS int64  `json:"duration_ms"`
}

type RunFunc func(ctx context.Context, now time.Time) (processed, failed int, err error)

// Job is a named task with its in-process cron schedule (UTC).
type Job struct {
	Name     string
	Schedule string
	Run      RunFunc
}

type Jobs struct {
	DB       *gorm.DB
	Mailer   email.Mailer
	Sessions *sessionService.SessionService
	Now      func() time.Time
	byName   map[string]Job
	ordered  []Job
}

func NewJobs(db *gorm.DB, mailer email.Mailer) *Jobs {
	j := &Jobs{
		DB:       db,
		Mailer:   mailer,
		Sessions: sessionService.NewSessionService(db, mailer),
		Now:      time.Now,
	}
	j.ordered = []Job{
		{JobProgressSnapshots, "0 2 * * *", j.ProgressSnapshots},
		{JobTrialReminders, "5 * * * *", j.TrialReminders},
		{JobTrialExpirations, "10 * * * *", j.TrialExpirations},
		{JobSubscriptionExpirations, "15 * * * *", j.SubscriptionExpirations},
		{JobSessionReminders, "20 * * * *", j.SessionReminders},
		{JobSessionsComplete, "*/15 * * * *", j.SessionsComplete},
		{JobTokenCleanup, "30 3 * * *", j.TokenCleanup},
	}
	j.byName = make(map[string]Job, len(j.ordered))
	for _, job := range j.ordered {
		j.byName[job.Name] = job
	}
	return j
}

// Register adds or replaces a job.
func (j *Jobs) Register(job Job) {
	if _, exists := j.byName[job.Name]; !exists {
		j.ordered = append(j.ordered, job)
	} else {
		for i := range j.ordered {
			if j.ordered[i].Name == job.Name {
				j.ordered[i] = job
			}
		}
	}
	j.byName[job.Name] = job
}

func (j *Jobs) All() []Job { return j.ordered }

// Run executes one job by name and records its metrics.
func (j *Jobs) Run(ctx context.Context, name string) (Result, error) {
	job, ok := j.byName[name]
	if !ok {
		return Result{Job: name}, ErrUnknownJob
	}
	started := time.Now()
	processed, failed, err := job.Run(ctx, j.Now())
	observability.ObserveJob(name, started, failed)

	res := Result{Job: name, Processed: processed, Failed: failed, DurationMS: time.Since(started).Milliseconds()}
	log := logging.L().With("job", name, "processed", processed, "failed", failed, "duration_ms", res.DurationMS)
	if err != nil {
		log.Errorw("job failed", "error", err)
		observability.CaptureErr(err)
		return res, err
	}
	log.Info("job done")
	return res, nil
}

func (j *Jobs) ProgressSnapshots(ctx context.Context, now time.Time) (int, int, error) {
	return progressService.SnapshotAll(ctx, j.DB, now)
}

// TrialReminders emails students whose trial ends within 48h, once.
func (j *Jobs) TrialReminders(ctx context.Context, now time.Time) (processed, failed int, err error) {
	var users []userModel.UserModel
	if err := j.DB.WithContext(ctx).
		Where("subscription_status = ? AND is_active = ? AND trial_reminder_sent_at IS NULL", constants.SubscriptionTrial, true).
		Where("trial_ends_at > ? AND trial_ends_at <= ?", now.UTC(), now.Add(TrialReminderWindow).UTC()).
		Find(&users).Error; err != nil {
		return 0, 0, err
	}
	for i := range users {
		u := &users[i]
		res := j.DB.WithContext(ctx).Model(&userModel.UserModel{}).
			Where("id = ? AND trial_reminder_sent_at IS NULL", u.ID).
			Update("trial_reminder_sent_at", now.UTC())
		if res.Error != nil {
			failed++
			logging.L().Warnw("trial reminder claim failed", "user_id", u.ID, "error", res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}
		if err := email.Deliver(ctx, j.Mailer, email.TplTrialEnding, email.Addr(u.FullName, u.Email),
			map[string]any{"EndsAt": email.FormatDate(*u.TrialEndsAt)}); err != nil {
			failed++
			logging.L().Warnw("trial reminder not sent", "user_id", u.ID, "error", err)
			// release the claim so the next run retries
			if rerr := j.DB.WithContext(ctx).Model(&userModel.UserModel{}).
				Where("id = ?", u.ID).
				Update("trial_reminder_sent_at", nil).Error; rerr != nil {
				logging.L().Errorw("trial reminder claim not released", "user_id", u.ID, "error", rerr)
			}
			continue
		}
		processed++
	}
	return processed, failed, nil
}

// TrialExpirations moves ended trials to expired and tells the student.
func (j *Jobs) TrialExpirations(ctx context.Context, now time.Time) (processed, failed int, err error) {
	var users []userModel.UserModel
	if err := j.DB.WithContext(ctx).
		Where("subscription_status = ? AND trial_ends_at <= ?", constants.SubscriptionTrial, now.UTC()).
		Find(&users).Error; err != nil {
		return 0, 0, err
	}
	for i := range users {
		u := &users[i]
		res := j.DB.WithContext(ctx).Model(&userModel.UserModel{}).
			Where("id = ? AND subscription_status = ?", u.ID, constants.SubscriptionTrial).
			Update("subscription_status", constants.SubscriptionExpired)
		if res.Error != nil {
			failed++
			logging.L().Warnw("trial expiration failed", "user_id", u.ID, "error", res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}
		processed++
		if u.IsActive {
			email.Notify(ctx, j.Mailer, email.TplTrialExpired, email.Addr(u.FullName, u.Email), nil)
		}
	}
	return processed, failed, nil
}

// SubscriptionExpirations closes active or canceled subscriptions past their end.
func (j *Jobs) SubscriptionExpirations(ctx context.Context, now time.Time) (int, int, error) {
	res := j.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("subscription_status IN ?", []string{constants.SubscriptionActive, constants.SubscriptionCanceled}).
		Where("subscription_ends_at IS NOT NULL AND subscription_ends_at <= ?", now.UTC()).
		Update("subscription_status", constants.SubscriptionExpired)
	return int(res.RowsAffected), 0, res.Error
}

func (j *Jobs) SessionReminders(ctx context.Context, now time.Time) (int, int, error) {
	return j.Sessions.SendReminders(ctx, now)
}

func (j *Jobs) SessionsComplete(ctx context.Context, now time.Time) (int, int, error) {
	n, err := j.Sessions.CompleteDue(ctx, now)
	return n, 0, err
}

// TokenCleanup drops expired blacklist rows and spent reset tokens.
func (j *Jobs) TokenCleanup(ctx context.Context, now time.Time) (int, int, error) {
	db := j.DB.WithContext(ctx)
	n, err := authRepo.CleanupExpiredBlacklist(db, now)
	if err != nil {
		return 0, 0, err
	}
	res := db.Where("expires_at <= ? OR used_at IS NOT NULL", now.UTC()).Delete(&authModel.PasswordResetToken{})
	if res.Error != nil {
		return int(n), 0, res.Error
	}
	return int(n + res.RowsAffected), 0, nil
}
