package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2024-01-01", "2024-01-01T00:00:00", "2024-01-01T13:45:00Z", " 2024-01-01 ", "2024-01-01T23:30:00+05:00"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	for _, in := range []string{"", "01/01/2024", "2024-13-01", "yesterday"} {
		_, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrInvalidDate, in)
	}
}

func TestDepartmentHistoryKey_String(t *testing.T) {
	k := DepartmentHistoryKey{EmployeeID: 100, DepartmentID: 1, ShiftID: 2, StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "100/1/2/2020-01-01", k.String())
}

func TestFormatDatePtr(t *testing.T) {
	assert.Nil(t, FormatDatePtr(nil))
	d := time.Date(2021, 6, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2021-06-30", *FormatDatePtr(&d))
}
