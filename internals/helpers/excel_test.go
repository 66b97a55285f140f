package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildXLSX(t *testing.T) {
	buf, err := BuildXLSX("Paiements", []string{"ID", "Montant"}, [][]any{{"a", 1900}, {"b", 2900}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Paiements")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Montant"}, rows[0])
	assert.Equal(t, []string{"b", "2900"}, rows[2])
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "", FormatTime(nil))
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "2025-01-02T02:04:05Z", FormatTime(&ts))
}
