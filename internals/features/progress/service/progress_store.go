package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"erpr_backend/internals/constants"
	userModel "erpr_backend/internals/features/users/user/model"
	"erpr_backend/internals/logging"
)

// CompleteChapter appends chapter to the module's completed array in one statement,
// so concurrent calls cannot lose an entry.
func CompleteChapter(ctx context.Context, db *gorm.DB, userID uuid.UUID, module string, chapter int, now time.Time) error {
	col := userModel.ModuleColumn(module, "completed_chapters")
	return db.WithContext(ctx).Exec(fmt.Sprintf(`
		UPDATE users
		SET %[1]s = ARRAY(SELECT DISTINCT c FROM unnest(%[1]s || ARRAY[?]::integer[]) AS c ORDER BY c),
		    last_study_at = ?,
		    updated_at = now()
		WHERE id = ?
	`, col), chapter, now.UTC(), userID).Error
}

func AddStudyTime(ctx context.Context, db *gorm.DB, userID uuid.UUID, seconds int, now time.Time) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"study_time_seconds": gorm.Expr("study_time_seconds + ?", seconds),
			"last_study_at":      now.UTC(),
		}).Error
}

// SnapshotAll appends today's percentage for every active student not yet
// snapshotted today. Running it again the same day changes nothing.
func SnapshotAll(ctx context.Context, db *gorm.DB, now time.Time) (processed, failed int, err error) {
	day := SnapshotDay(now)
	pending := "progress_snapshot_on IS NULL OR progress_snapshot_on < ?"

	var batch []userModel.UserModel
	res := db.WithContext(ctx).
		Where("role = ? AND is_active = ?", constants.RoleStudent, true).
		Where(pending, day).
		FindInBatches(&batch, 200, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				u := &batch[i]
				updates := SnapshotUpdates(u, now)
				if updates == nil {
					continue
				}
				// the guard makes a concurrent run of the same day a no-op
				up := db.WithContext(ctx).Model(u).Where(pending, day).Updates(updates)
				if up.Error != nil {
					failed++
					logging.L().Warnw("progress snapshot failed", "user_id", u.ID, "error", up.Error)
					continue
				}
				if up.RowsAffected > 0 {
					processed++
				}
			}
			return ctx.Err()
		})
	return processed, failed, res.Error
}
