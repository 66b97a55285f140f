//go:build integration

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpr_backend/internals/constants"
	"erpr_backend/internals/testutil/testdb"
)

func TestStoreAgainstPostgres(t *testing.T) {
	db := testdb.Start(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) // a Monday

	t.Run("concurrent chapter completions keep every chapter once", func(t *testing.T) {
		u := testdb.Student(t, db, nil)
		var wg sync.WaitGroup
		for ch := 1; ch <= 5; ch++ {
			for k := 0; k < 2; k++ {
				wg.Add(1)
				go func(ch int) {
					defer wg.Done()
					assert.NoError(t, CompleteChapter(ctx, db, u.ID, constants.ModuleErpr, ch, now))
				}(ch)
			}
		}
		wg.Wait()

		got := testdb.Reload(t, db, u.ID)
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, []int64(got.ErprCompletedChapters))
		assert.Empty(t, got.TajwidCompletedChapters)
		require.NotNil(t, got.LastStudyAt)
	})

	t.Run("study time accumulates", func(t *testing.T) {
		u := testdb.Student(t, db, nil)
		require.NoError(t, AddStudyTime(ctx, db, u.ID, 600, now))
		require.NoError(t, AddStudyTime(ctx, db, u.ID, 120, now))
		assert.Equal(t, int64(720), testdb.Reload(t, db, u.ID).StudyTimeSeconds)
	})

	t.Run("snapshot appends daily and weekly entries", func(t *testing.T) {
		u := testdb.Student(t, db, nil)
		require.NoError(t, CompleteChapter(ctx, db, u.ID, constants.ModuleErpr, 1, now))

		processed, failed, err := SnapshotAll(ctx, db, now)
		require.NoError(t, err)
		assert.Zero(t, failed)
		assert.GreaterOrEqual(t, processed, 1)

		got := testdb.Reload(t, db, u.ID)
		require.Len(t, got.ErprDailyProgress, 1)
		assert.Greater(t, got.ErprDailyProgress[0], 0.0)
		assert.Len(t, got.ErprWeeklyProgress, 1)
		assert.Equal(t, []float64{0}, []float64(got.TajwidDailyProgress))
		require.NotNil(t, got.ProgressSnapshotOn)
	})

	t.Run("a second snapshot the same day is skipped", func(t *testing.T) {
		u := testdb.Student(t, db, nil)
		require.NoError(t, CompleteChapter(ctx, db, u.ID, constants.ModuleErpr, 2, now))

		_, _, err := SnapshotAll(ctx, db, now)
		require.NoError(t, err)
		processed, failed, err := SnapshotAll(ctx, db, now.Add(6*time.Hour))
		require.NoError(t, err)
		assert.Zero(t, processed)
		assert.Zero(t, failed)

		got := testdb.Reload(t, db, u.ID)
		assert.Len(t, got.ErprDailyProgress, 1)
		assert.Len(t, got.ErprWeeklyProgress, 1)

		processed, _, err = SnapshotAll(ctx, db, now.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, processed, 1)
		got = testdb.Reload(t, db, u.ID)
		assert.Len(t, got.ErprDailyProgress, 2)
		assert.Len(t, got.ErprWeeklyProgress, 1, "weekly entries are only added on Mondays")
	})
}
