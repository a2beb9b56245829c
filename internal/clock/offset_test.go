package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffset(t *testing.T) {
	tests := []struct {
		offset  string
		hours   int
		minutes int
	}{
		{"+0530", 5, 30},
		{"-0800", -8, 0},
		{"-0545", -5, -45},
		{"+0000", 0, 0},
		{"+1345", 13, 45},
		{"-0330", -3, -30},
	}

	for _, tt := range tests {
		t.Run(tt.offset, func(t *testing.T) {
			hours, minutes, err := ParseOffset(tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.hours, hours)
			assert.Equal(t, tt.minutes, minutes)
		})
	}
}

func TestParseOffset_Malformed(t *testing.T) {
	for _, offset := range []string{"", "0530", "+530", "+05:30", "badly"} {
		_, _, err := ParseOffset(offset)
		assert.Error(t, err, "offset %q", offset)
	}
}

func TestOffset(t *testing.T) {
	// Mid-January, so northern-hemisphere zones are on standard time.
	at := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

	hours, minutes, err := Offset("Asia/Kolkata", at)
	require.NoError(t, err)
	assert.Equal(t, 5, hours)
	assert.Equal(t, 30, minutes)

	hours, minutes, err = Offset("America/Chicago", at)
	require.NoError(t, err)
	assert.Equal(t, -6, hours)
	assert.Equal(t, 0, minutes)

	hours, minutes, err = Offset("UTC", at)
	require.NoError(t, err)
	assert.Equal(t, 0, hours)
	assert.Equal(t, 0, minutes)
}

func TestOffset_UnknownZone(t *testing.T) {
	_, _, err := Offset("Nowhere/Atlantis", time.Now())
	assert.Error(t, err)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("America/Chicago"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("Nowhere/Atlantis"))
}
