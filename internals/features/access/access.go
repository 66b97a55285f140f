// Package access holds the free-trial and subscription rules that decide
// which chapters a user may open. Everything here is a pure function of the
// user row and the current time; nothing is cached between requests.
package access

import (
	"math"
	"time"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	userModel "erpr_backend/internals/features/users/user/model"
)

func TrialActive(u *userModel.UserModel, now time.Time) bool {
	return u.SubscriptionStatus == constants.SubscriptionTrial &&
		u.TrialEndsAt != nil && now.Before(*u.TrialEndsAt)
}

// SubscriptionActive is true for active and canceled subscriptions until ends_at.
func SubscriptionActive(u *userModel.UserModel, now time.Time) bool {
	if u.SubscriptionStatus != constants.SubscriptionActive && u.SubscriptionStatus != constants.SubscriptionCanceled {
		return false
	}
	return u.SubscriptionEndsAt == nil || now.Before(*u.SubscriptionEndsAt)
}

func CoversModule(u *userModel.UserModel, module string) bool {
	if u.SubscriptionModule == nil {
		return false
	}
	m := *u.SubscriptionModule
	return m == constants.ModuleBoth || m == module
}

func CanAccessChapter(u *userModel.UserModel, module string, chapter int, now time.Time) bool {
	if u.IsStaff() {
		return true
	}
	if SubscriptionActive(u, now) && CoversModule(u, module) {
		return true
	}
	return TrialActive(u, now) && module == constants.ModuleErpr &&
		chapter >= 1 && chapter <= configs.FreeTrialChapters
}

// CanAccessModule reports whether at least one chapter of module is open.
func CanAccessModule(u *userModel.UserModel, module string, now time.Time) bool {
	return CanAccessChapter(u, module, 1, now)
}

func CanBookSessions(u *userModel.UserModel, now time.Time) bool {
	return SubscriptionActive(u, now)
}

// Modules lists the content modules fully covered by the subscription.
func Modules(u *userModel.UserModel, now time.Time) []string {
	out := []string{}
	if u.IsStaff() {
		return append(out, constants.ContentModules...)
	}
	if !SubscriptionActive(u, now) {
		return out
	}
	for _, m := range constants.ContentModules {
		if CoversModule(u, m) {
			out = append(out, m)
		}
	}
	return out
}

type Summary struct {
	TrialActive        bool       `json:"trial_active"`
	TrialDaysLeft      int        `json:"trial_days_left"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	SubscriptionActive bool       `json:"subscription_active"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionPlan   *string    `json:"subscription_plan,omitempty"`
	Modules            []string   `json:"modules"`
	FreeChapters       int        `json:"free_chapters"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	CanBookSessions    bool       `json:"can_book_sessions"`
}

func BuildSummary(u *userModel.UserModel, now time.Time) Summary {
	s := Summary{
		TrialActive:        TrialActive(u, now),
		TrialEndsAt:        u.TrialEndsAt,
		SubscriptionActive: SubscriptionActive(u, now),
		SubscriptionStatus: u.SubscriptionStatus,
		SubscriptionPlan:   u.SubscriptionPlan,
		Modules:            Modules(u, now),
		SubscriptionEndsAt: u.SubscriptionEndsAt,
		CanBookSessions:    CanBookSessions(u, now),
	}
	if s.TrialActive {
		s.TrialDaysLeft = DaysLeft(*u.TrialEndsAt, now)
		s.FreeChapters = configs.FreeTrialChapters
	}
	return s
}

// DaysLeft rounds the remaining time up to whole days; 0 once passed.
func DaysLeft(end, now time.Time) int {
	d := end.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}
