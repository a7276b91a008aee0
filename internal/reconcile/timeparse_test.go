package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampPadsSingleDigitHour(t *testing.T) {
	padded, err := ParseTimestamp("2023-01-05T09:00:00")
	require.NoError(t, err)

	bare, err := ParseTimestamp("2023-01-05T9:00:00")
	require.NoError(t, err)

	assert.True(t, padded.Equal(bare))
}

func TestParseTimestampRejectsOtherMalformations(t *testing.T) {
	for _, ts := range []string{
		"",
		"2023-01-05",
		"2023-01-05 09:00:00",
		"2023-1-05T09:00:00",  // unpadded month
		"2023-01-5T09:00:00",  // unpadded day
		"2023-01-05T09:0:00",  // unpadded minute
		"2023-01-05T9:00",     // missing seconds
		"2023-01-05T25:00:00", // impossible hour
		"2023-02-30T09:00:00", // impossible date
		"not a timestamp",
	} {
		_, err := ParseTimestamp(ts)
		assert.Error(t, err, "timestamp %q", ts)
	}
}

func TestNormalizeTime(t *testing.T) {
	cases := map[string]string{
		"9:05":     "09:05",
		"09:05":    "09:05",
		"09:05:30": "09:05",
		"0905":     "09:05",
		"905":      "09:05",
		" 18:00 ":  "18:00",
		"":         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTime(in), "input %q", in)
	}
}

func TestNormalizeTimeLeavesGarbageForValidation(t *testing.T) {
	assert.False(t, IsValidTime(NormalizeTime("25:99")))
	assert.False(t, IsValidTime(NormalizeTime("soon")))
	assert.True(t, IsValidTime(NormalizeTime("7:30")))
}
