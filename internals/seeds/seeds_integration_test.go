//go:build integration

package seeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	professorModel "erpr_backend/internals/features/professors/model"
	userModel "erpr_backend/internals/features/users/user/model"
	videoModel "erpr_backend/internals/features/videos/model"
	"erpr_backend/internals/testutil/testdb"
)

func TestRunAllSeedsIsIdempotent(t *testing.T) {
	db := testdb.Start(t)

	require.NoError(t, RunAllSeeds(db))
	require.NoError(t, RunAllSeeds(db))

	var users, profs, erprVideos int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&users).Error)
	require.NoError(t, db.Model(&professorModel.ProfessorModel{}).Count(&profs).Error)
	require.NoError(t, db.Table(videoModel.Table("erpr")).Count(&erprVideos).Error)
	assert.Equal(t, int64(3), users)
	assert.Equal(t, int64(2), profs)
	assert.Equal(t, int64(3), erprVideos)

	var amina professorModel.ProfessorModel
	require.NoError(t, db.First(&amina, "email = ?", "amina@methode-erpr.fr").Error)
	require.NotNil(t, amina.UserID)
	assert.ElementsMatch(t, []string{"erpr", "tajwid"}, []string(amina.Modules))
}
