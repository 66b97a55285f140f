package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"erpr_backend/internals/constants"
	userModel "erpr_backend/internals/features/users/user/model"
)

func ptr[T any](v T) *T { return &v }

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func trialUser(endsIn time.Duration) *userModel.UserModel {
	return &userModel.UserModel{
		Role:               constants.RoleStudent,
		SubscriptionStatus: constants.SubscriptionTrial,
		TrialEndsAt:        ptr(now.Add(endsIn)),
	}
}

func subscriber(status, module string, endsIn time.Duration) *userModel.UserModel {
	return &userModel.UserModel{
		Role:               constants.RoleStudent,
		SubscriptionStatus: status,
		SubscriptionModule: ptr(module),
		SubscriptionEndsAt: ptr(now.Add(endsIn)),
	}
}

func TestTrialActive(t *testing.T) {
	assert.True(t, TrialActive(trialUser(time.Hour), now))
	assert.False(t, TrialActive(trialUser(-time.Second), now))
	assert.False(t, TrialActive(trialUser(0), now), "trial ends exactly now")

	u := trialUser(time.Hour)
	u.SubscriptionStatus = constants.SubscriptionExpired
	assert.False(t, TrialActive(u, now))

	u = trialUser(time.Hour)
	u.TrialEndsAt = nil
	assert.False(t, TrialActive(u, now))
}

func TestSubscriptionActive(t *testing.T) {
	assert.True(t, SubscriptionActive(subscriber(constants.SubscriptionActive, constants.ModuleErpr, time.Hour), now))
	assert.True(t, SubscriptionActive(subscriber(constants.SubscriptionCanceled, constants.ModuleErpr, time.Hour), now))
	assert.False(t, SubscriptionActive(subscriber(constants.SubscriptionActive, constants.ModuleErpr, -time.Hour), now))
	assert.False(t, SubscriptionActive(subscriber(constants.SubscriptionExpired, constants.ModuleErpr, time.Hour), now))

	open := subscriber(constants.SubscriptionActive, constants.ModuleErpr, 0)
	open.SubscriptionEndsAt = nil
	assert.True(t, SubscriptionActive(open, now))
}

func TestCanAccessChapter(t *testing.T) {
	tests := []struct {
		name    string
		user    *userModel.UserModel
		module  string
		chapter int
		want    bool
	}{
		{"trial first chapter", trialUser(time.Hour), constants.ModuleErpr, 1, true},
		{"trial last free chapter", trialUser(time.Hour), constants.ModuleErpr, 3, true},
		{"trial beyond free chapters", trialUser(time.Hour), constants.ModuleErpr, 4, false},
		{"trial tajwid", trialUser(time.Hour), constants.ModuleTajwid, 1, false},
		{"expired trial", trialUser(-time.Hour), constants.ModuleErpr, 1, false},
		{"erpr subscriber on erpr", subscriber(constants.SubscriptionActive, constants.ModuleErpr, time.Hour), constants.ModuleErpr, 25, true},
		{"erpr subscriber on tajwid", subscriber(constants.SubscriptionActive, constants.ModuleErpr, time.Hour), constants.ModuleTajwid, 1, false},
		{"both subscriber on tajwid", subscriber(constants.SubscriptionActive, constants.ModuleBoth, time.Hour), constants.ModuleTajwid, 12, true},
		{"canceled keeps access until end", subscriber(constants.SubscriptionCanceled, constants.ModuleTajwid, time.Hour), constants.ModuleTajwid, 2, true},
		{"ended subscription", subscriber(constants.SubscriptionActive, constants.ModuleBoth, -time.Minute), constants.ModuleErpr, 5, false},
		{"professor", &userModel.UserModel{Role: constants.RoleProfessor}, constants.ModuleTajwid, 20, true},
		{"admin", &userModel.UserModel{Role: constants.RoleAdmin}, constants.ModuleErpr, 30, true},
		{"no access", &userModel.UserModel{Role: constants.RoleStudent, SubscriptionStatus: constants.SubscriptionNone}, constants.ModuleErpr, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessChapter(tt.user, tt.module, tt.chapter, now))
		})
	}
}

func TestCanBookSessions(t *testing.T) {
	assert.False(t, CanBookSessions(trialUser(time.Hour), now))
	assert.True(t, CanBookSessions(subscriber(constants.SubscriptionActive, constants.ModuleErpr, time.Hour), now))
}

func TestBuildSummary(t *testing.T) {
	s := BuildSummary(trialUser(36*time.Hour), now)
	assert.True(t, s.TrialActive)
	assert.Equal(t, 2, s.TrialDaysLeft)
	assert.Equal(t, 3, s.FreeChapters)
	assert.Empty(t, s.Modules)
	assert.False(t, s.CanBookSessions)

	s = BuildSummary(subscriber(constants.SubscriptionActive, constants.ModuleBoth, 24*time.Hour), now)
	assert.False(t, s.TrialActive)
	assert.Zero(t, s.FreeChapters)
	assert.Equal(t, []string{constants.ModuleErpr, constants.ModuleTajwid}, s.Modules)
	assert.True(t, s.CanBookSessions)
}

func TestDaysLeft(t *testing.T) {
	assert.Equal(t, 0, DaysLeft(now.Add(-time.Hour), now))
	assert.Equal(t, 1, DaysLeft(now.Add(time.Minute), now))
	assert.Equal(t, 7, DaysLeft(now.Add(7*24*time.Hour), now))
}
