package service

import (
	"math"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/configs"
	userModel "erpr_backend/internals/features/users/user/model"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(nil, 30))
	assert.Equal(t, 10.0, Percentage([]int64{1, 2, 3}, 30))
	assert.Equal(t, 33.33, Percentage([]int64{1}, 3))
	// duplicates and out of range chapters do not count
	assert.Equal(t, 10.0, Percentage([]int64{1, 1, 2, 3, 0, 31}, 30))
	assert.Equal(t, 0.0, Percentage([]int64{1}, 0))
}

func TestValidSnapshots(t *testing.T) {
	got := ValidSnapshots([]float64{10, -1, math.NaN(), 101, 20, 100, 0})
	assert.Equal(t, []float64{10, 20, 100, 0}, got)
	assert.Empty(t, ValidSnapshots(nil))
}

func TestDelta(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{40}, 0},
		{"two", []float64{10, 25.5}, 15.5},
		{"decrease", []float64{30, 20}, -10},
		{"skips invalid tail", []float64{10, 20, -5}, 10},
		{"skips invalid middle", []float64{10, math.NaN(), 30}, 20},
		{"only one valid", []float64{150, 10, -2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Delta(tt.series))
		})
	}
}

func TestDeltas(t *testing.T) {
	assert.Equal(t, []float64{5, 10, 0}, Deltas([]float64{0, 5, 15, 15}))
	assert.Equal(t, []float64{}, Deltas([]float64{3}))
	assert.Equal(t, []float64{7}, Deltas([]float64{3, 200, 10}))
}

func TestAddChapter(t *testing.T) {
	out, added := AddChapter([]int64{5, 1, 3}, 2)
	assert.True(t, added)
	assert.Equal(t, pq.Int64Array{1, 2, 3, 5}, out)

	out, added = AddChapter(out, 3)
	assert.False(t, added)
	assert.Equal(t, pq.Int64Array{1, 2, 3, 5}, out)

	out, added = AddChapter(nil, 1)
	assert.True(t, added)
	assert.Equal(t, pq.Int64Array{1}, out)
}

func TestAppendCapped(t *testing.T) {
	series := make([]float64, 0, DailySnapshotCap)
	for i := 0; i < DailySnapshotCap; i++ {
		series = append(series, float64(i))
	}
	out := AppendCapped(series, 99, DailySnapshotCap)
	require.Len(t, out, DailySnapshotCap)
	assert.Equal(t, 1.0, out[0])
	assert.Equal(t, 99.0, out[len(out)-1])
	// input untouched
	assert.Equal(t, 0.0, series[0])

	assert.Equal(t, pq.Float64Array{4}, AppendCapped(nil, 4, WeeklySnapshotCap))
}

func TestWeeklyDue(t *testing.T) {
	monday := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	assert.True(t, WeeklyDue(monday, []float64{10}))
	assert.False(t, WeeklyDue(tuesday, []float64{10}))
	assert.True(t, WeeklyDue(tuesday, nil))
}

func TestSnapshotUpdates(t *testing.T) {
	tuesday := time.Date(2026, 10, 20, 3, 0, 0, 0, time.UTC)
	u := &userModel.UserModel{
		ErprCompletedChapters: pq.Int64Array{1, 2, 3},
		ErprDailyProgress:     pq.Float64Array{5},
		ErprWeeklyProgress:    pq.Float64Array{0},
	}

	updates := SnapshotUpdates(u, tuesday)

	want := Percentage([]int64{1, 2, 3}, configs.ErprChapterCount)
	assert.Equal(t, pq.Float64Array{5, want}, updates["erpr_daily_progress"])
	assert.Equal(t, pq.Float64Array{0}, updates["tajwid_daily_progress"])
	// weekly erpr already has data and it is not Monday
	assert.NotContains(t, updates, "erpr_weekly_progress")
	// weekly tajwid is empty so it is seeded
	assert.Equal(t, pq.Float64Array{0}, updates["tajwid_weekly_progress"])
}

func TestSnapshotUpdatesOncePerDay(t *testing.T) {
	tuesday := time.Date(2026, 10, 20, 3, 0, 0, 0, time.UTC)
	u := &userModel.UserModel{
		ErprCompletedChapters: pq.Int64Array{1, 2, 3},
		ErprDailyProgress:     pq.Float64Array{5},
		ErprWeeklyProgress:    pq.Float64Array{5},
	}

	first := SnapshotUpdates(u, tuesday)
	require.NotNil(t, first)
	day, ok := first["progress_snapshot_on"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, SnapshotDay(tuesday), day)

	u.ErprDailyProgress = first["erpr_daily_progress"].(pq.Float64Array)
	u.ProgressSnapshotOn = &day
	want := Percentage([]int64{1, 2, 3}, configs.ErprChapterCount)
	assert.Equal(t, Round2(want-5), Delta(u.ErprDailyProgress))

	// a second run later the same day leaves the series alone
	assert.Nil(t, SnapshotUpdates(u, tuesday.Add(20*time.Hour)))
	assert.False(t, SnapshotDue(u, tuesday.Add(20*time.Hour)))

	next := SnapshotUpdates(u, tuesday.Add(24*time.Hour))
	require.NotNil(t, next)
	assert.Len(t, next["erpr_daily_progress"], 3)
}

func TestSnapshotDayIsUTC(t *testing.T) {
	paris := time.FixedZone("CEST", 2*3600)
	late := time.Date(2026, 10, 21, 1, 30, 0, 0, paris)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), SnapshotDay(late))
}

func TestBuildOverview(t *testing.T) {
	u := &userModel.UserModel{
		ErprCompletedChapters: pq.Int64Array{1, 2, 3},
		ErprDailyProgress:     pq.Float64Array{0, 6.67, -1, 10},
		StudyTimeSeconds:      600,
	}
	o := BuildOverview(u)

	require.Len(t, o.Modules, 2)
	erpr := o.Modules[0]
	assert.Equal(t, "erpr", erpr.Module)
	assert.Equal(t, configs.ErprChapterCount, erpr.ChapterCount)
	assert.Equal(t, []float64{0, 6.67, 10}, erpr.Daily)
	assert.Equal(t, 3.33, erpr.DailyDelta)
	assert.Equal(t, 0.0, erpr.WeeklyDelta)

	tajwid := o.Modules[1]
	assert.Equal(t, []int64{}, tajwid.CompletedChapters)
	assert.Equal(t, 0.0, tajwid.Percentage)
	assert.Equal(t, int64(600), o.StudyTimeSeconds)
}
