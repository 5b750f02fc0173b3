package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	d := DateOf(time.Date(2025, 2, 3, 23, 59, 0, 0, time.FixedZone("x", -5*3600)))

	resolved, err := d.Resolve()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), resolved)
	assert.Equal(t, "2025-02-03", d.String())
}

func TestDueDate_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		in      DueDate
		wantErr bool
	}{
		{"valid string", DueDateFromString("2024-12-31"), false},
		{"unset", DueDate{}, true},
		{"empty string", DueDateFromString(""), true},
		{"wrong layout", DueDateFromString("31-12-2024"), true},
		{"impossible day", DueDateFromString("2024-02-30"), true},
		{"trailing text", DueDateFromString("2024-12-31T10:00"), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.in.Resolve()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDueDate_JSON(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var d DueDate
		require.NoError(t, json.Unmarshal([]byte(`"2025-05-05"`), &d))
		assert.False(t, d.IsZero())

		out, err := json.Marshal(d)
		require.NoError(t, err)
		assert.JSONEq(t, `"2025-05-05"`, string(out))
	})

	t.Run("null", func(t *testing.T) {
		var d DueDate
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.True(t, d.IsZero())

		out, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	})

	t.Run("number is a validation failure not a decode failure", func(t *testing.T) {
		var d DueDate
		require.NoError(t, json.Unmarshal([]byte(`20250505`), &d))
		_, err := d.Resolve()
		assert.ErrorIs(t, err, ErrValidation)
	})
}
