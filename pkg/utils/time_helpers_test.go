// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		validate    func(*testing.T, time.Time)
	}{
		{
			name:  "valid date",
			input: "2023-06-15",
			validate: func(t *testing.T, parsed time.Time) {
				assert.Equal(t, 2023, parsed.Year())
				assert.Equal(t, time.June, parsed.Month())
				assert.Equal(t, 15, parsed.Day())
				assert.Equal(t, 0, parsed.Hour())
			},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "wrong layout",
			input:       "06/15/2023",
			expectError: true,
		},
		{
			name:        "timestamp rejected",
			input:       "2023-06-15T10:00:00Z",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseDate(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, parsed)
		})
	}
}

func TestParseDatePtr(t *testing.T) {
	t.Run("nil input", func(t *testing.T) {
		parsed, err := ParseDatePtr(nil)
		require.NoError(t, err)
		assert.Nil(t, parsed)
	})

	t.Run("empty input", func(t *testing.T) {
		parsed, err := ParseDatePtr(StringPtr(""))
		require.NoError(t, err)
		assert.Nil(t, parsed)
	})

	t.Run("valid input", func(t *testing.T) {
		parsed, err := ParseDatePtr(StringPtr("2024-01-31"))
		require.NoError(t, err)
		require.NotNil(t, parsed)
		assert.Equal(t, 31, parsed.Day())
	})
}

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, FormatTimePtr(nil))

	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	formatted := FormatTimePtr(&ts)
	require.NotNil(t, formatted)
	assert.Equal(t, "2024-03-01T12:30:00Z", *formatted)
}

func TestIntPtrEqual(t *testing.T) {
	assert.True(t, IntPtrEqual(nil, nil))
	assert.False(t, IntPtrEqual(nil, IntPtr(0)))
	assert.False(t, IntPtrEqual(IntPtr(0), nil))
	assert.True(t, IntPtrEqual(IntPtr(3), IntPtr(3)))
	assert.False(t, IntPtrEqual(IntPtr(3), IntPtr(-3)))
}
