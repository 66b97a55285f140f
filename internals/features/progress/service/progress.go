package service

import (
	"math"
	"sort"
	"time"

	"github.com/lib/pq"

	"erpr_backend/internals/configs"
	"erpr_backend/internals/constants"
	userModel "erpr_backend/internals/features/users/user/model"
)

const (
	DailySnapshotCap  = 30
	WeeklySnapshotCap = 12
)

// Percentage counts distinct chapters in 1..count and rounds to 2 decimals.
func Percentage(completed []int64, count int) float64 {
	if count <= 0 {
		return 0
	}
	seen := make(map[int64]struct{}, len(completed))
	for _, ch := range completed {
		if ch >= 1 && ch <= int64(count) {
			seen[ch] = struct{}{}
		}
	}
	return Round2(float64(len(seen)) / float64(count) * 100)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidSnapshots drops negative, NaN and >100 entries.
func ValidSnapshots(series []float64) []float64 {
	out := make([]float64, 0, len(series))
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Delta is last minus previous over the valid entries, 0 with fewer than two.
func Delta(series []float64) float64 {
	v := ValidSnapshots(series)
	if len(v) < 2 {
		return 0
	}
	return Round2(v[len(v)-1] - v[len(v)-2])
}

// Deltas returns the pairwise differences of the valid entries.
func Deltas(series []float64) []float64 {
	v := ValidSnapshots(series)
	if len(v) < 2 {
		return []float64{}
	}
	out := make([]float64, 0, len(v)-1)
	for i := 1; i < len(v); i++ {
		out = append(out, Round2(v[i]-v[i-1]))
	}
	return out
}

// AddChapter returns a sorted, de-duplicated copy with chapter included.
func AddChapter(completed []int64, chapter int64) (pq.Int64Array, bool) {
	set := make(map[int64]struct{}, len(completed)+1)
	for _, ch := range completed {
		set[ch] = struct{}{}
	}
	_, had := set[chapter]
	set[chapter] = struct{}{}

	out := make(pq.Int64Array, 0, len(set))
	for ch := range set {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, !had
}

// AppendCapped appends v and keeps the most recent max entries.
func AppendCapped(series []float64, v float64, max int) pq.Float64Array {
	out := append(pq.Float64Array{}, series...)
	out = append(out, v)
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return out
}

// WeeklyDue is true on Mondays, or when no weekly snapshot exists yet.
func WeeklyDue(now time.Time, weekly []float64) bool {
	return now.Weekday() == time.Monday || len(weekly) == 0
}

// SnapshotDay is the UTC calendar day a snapshot taken at now belongs to.
func SnapshotDay(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SnapshotDue is false once u has a snapshot for now's day.
func SnapshotDue(u *userModel.UserModel, now time.Time) bool {
	return u.ProgressSnapshotOn == nil || SnapshotDay(*u.ProgressSnapshotOn).Before(SnapshotDay(now))
}

// SnapshotUpdates computes the column updates of the daily snapshot for u,
// or nil when today's snapshot was already taken.
func SnapshotUpdates(u *userModel.UserModel, now time.Time) map[string]any {
	if !SnapshotDue(u, now) {
		return nil
	}
	updates := map[string]any{"progress_snapshot_on": SnapshotDay(now)}
	for _, m := range constants.ContentModules {
		pct := Percentage(u.CompletedChapters(m), configs.ChapterCount(m))
		updates[userModel.ModuleColumn(m, "daily_progress")] = AppendCapped(u.DailyProgress(m), pct, DailySnapshotCap)
		if weekly := u.WeeklyProgress(m); WeeklyDue(now, weekly) {
			updates[userModel.ModuleColumn(m, "weekly_progress")] = AppendCapped(weekly, pct, WeeklySnapshotCap)
		}
	}
	return updates
}

type ModuleProgress struct {
	Module            string    `json:"module"`
	ChapterCount      int       `json:"chapter_count"`
	CompletedChapters []int64   `json:"completed_chapters"`
	Percentage        float64   `json:"percentage"`
	DailyDelta        float64   `json:"daily_delta"`
	WeeklyDelta       float64   `json:"weekly_delta"`
	Daily             []float64 `json:"daily"`
	Weekly            []float64 `json:"weekly"`
	DailyDeltas       []float64 `json:"daily_deltas"`
	WeeklyDeltas      []float64 `json:"weekly_deltas"`
}

type Overview struct {
	Modules          []ModuleProgress `json:"modules"`
	StudyTimeSeconds int64            `json:"study_time_seconds"`
	LastStudyAt      *time.Time       `json:"last_study_at,omitempty"`
}

func BuildOverview(u *userModel.UserModel) Overview {
	o := Overview{StudyTimeSeconds: u.StudyTimeSeconds, LastStudyAt: u.LastStudyAt}
	for _, m := range constants.ContentModules {
		count := configs.ChapterCount(m)
		completed := []int64(u.CompletedChapters(m))
		if completed == nil {
			completed = []int64{}
		}
		daily := ValidSnapshots(u.DailyProgress(m))
		weekly := ValidSnapshots(u.WeeklyProgress(m))
		o.Modules = append(o.Modules, ModuleProgress{
			Module:            m,
			ChapterCount:      count,
			CompletedChapters: completed,
			Percentage:        Percentage(completed, count),
			DailyDelta:        Delta(daily),
			WeeklyDelta:       Delta(weekly),
			Daily:             daily,
			Weekly:            weekly,
			DailyDeltas:       Deltas(daily),
			WeeklyDeltas:      Deltas(weekly),
		})
	}
	return o
}
