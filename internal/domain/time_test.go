package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime_AcceptedLayouts(t *testing.T) {
	want := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)

	for _, value := range []string{
		"2025-03-02T12:00",
		"2025-03-02 12:00",
		"202503021200",
		"2025-03-02T12:00:00",
		"2025-03-02T12:00:00Z",
	} {
		got, err := ParseTime(value)
		require.NoError(t, err, "value %q", value)
		assert.True(t, got.Equal(want), "value %q parsed as %v", value, got)
	}
}

func TestParseTime_Invalid(t *testing.T) {
	for _, value := range []string{"", "yesterday", "2025-13-40T99:99"} {
		_, err := ParseTime(value)
		assert.Error(t, err, "value %q", value)
	}
}
