package dto

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "erpr_backend/internals/helpers"
)

func TestNormalizeModules(t *testing.T) {
	assert.Equal(t, []string{"erpr", "tajwid"}, NormalizeModules([]string{" Tajwid", "ERPR", "erpr"}))
	assert.Equal(t, []string{}, NormalizeModules(nil))
}

func TestCreateProfessorValidation(t *testing.T) {
	req := CreateProfessorRequest{FullName: "Amina", Email: "AMINA@Example.com ", Modules: []string{"Erpr"}}
	req.Normalize()
	require.NoError(t, helper.ValidateStruct(&req))
	assert.Equal(t, "amina@example.com", req.Email)

	m := req.ToModel()
	assert.True(t, m.IsActive)
	assert.Equal(t, pq.StringArray{"erpr"}, m.Modules)
	assert.True(t, m.Teaches("erpr"))
	assert.False(t, m.Teaches("tajwid"))

	bad := CreateProfessorRequest{FullName: "Amina", Email: "amina@example.com", Modules: []string{"quran"}}
	bad.Normalize()
	err := helper.ValidateStruct(&bad)
	var ve *helper.ValidationError
	require.ErrorAs(t, err, &ve)

	empty := CreateProfessorRequest{FullName: "Amina", Email: "amina@example.com"}
	require.Error(t, helper.ValidateStruct(&empty))
}

func TestUpdateProfessorUpdates(t *testing.T) {
	email := " New@Mail.fr"
	active := false
	req := UpdateProfessorRequest{Email: &email, IsActive: &active, Modules: []string{"tajwid"}}
	req.Normalize()

	u := req.Updates()
	assert.Equal(t, "new@mail.fr", u["email"])
	assert.Equal(t, false, u["is_active"])
	assert.Equal(t, pq.StringArray{"tajwid"}, u["modules"])
	assert.NotContains(t, u, "full_name")
}
