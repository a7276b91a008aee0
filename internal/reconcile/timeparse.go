package reconcile

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the storage format for attendance timestamps.
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout keys DaySets and storage lookups.
const DateLayout = "2006-01-02"

type parseState int

const (
	parseOK parseState = iota
	parseNeedsPadding
	parseInvalid
)

// classifyTimestamp decides how ts may be parsed: either it is already
// well-formed ISO, or it carries the one tolerated malformation (a
// single-digit hour, e.g. "2023-01-05T9:00:00"), or it is invalid. The shape
// is checked by hand because time.Parse quietly accepts unpadded fields,
// which would widen the tolerance beyond the hour segment.
func classifyTimestamp(ts string) parseState {
	datePart, timePart, found := strings.Cut(ts, "T")
	if !found || !wellFormedDate(datePart) {
		return parseInvalid
	}
	var state parseState
	switch {
	case wellFormedClock(timePart):
		state = parseOK
	case len(timePart) == 7 && wellFormedClock("0" + timePart):
		state = parseNeedsPadding
		timePart = "0" + timePart
	default:
		return parseInvalid
	}
	// Shape is right; reject impossible calendar values (hour 25, Feb 30...).
	if _, err := time.Parse(TimestampLayout, datePart+"T"+timePart); err != nil {
		return parseInvalid
	}
	return state
}

func wellFormedDate(s string) bool {
	return len(s) == 10 && s[4] == '-' && s[7] == '-' &&
		isDigits(s[:4]) && isDigits(s[5:7]) && isDigits(s[8:])
}

func wellFormedClock(s string) bool {
	return len(s) == 8 && s[2] == ':' && s[5] == ':' &&
		isDigits(s[:2]) && isDigits(s[3:5]) && isDigits(s[6:])
}

// ParseTimestamp parses an ISO timestamp, zero-padding a single-digit hour
// segment first. Any other malformation is an error.
func ParseTimestamp(ts string) (time.Time, error) {
	switch classifyTimestamp(ts) {
	case parseOK:
		return time.Parse(TimestampLayout, ts)
	case parseNeedsPadding:
		datePart, timePart, _ := strings.Cut(ts, "T")
		return time.Parse(TimestampLayout, datePart+"T0"+timePart)
	default:
		return time.Time{}, fmt.Errorf("invalid timestamp %q", ts)
	}
}

// NormalizeTime coerces common clock notations to "HH:MM":
// "9:05" -> "09:05", "09:05:30" -> "09:05", "0905" -> "09:05", "905" -> "09:05".
// Strings it cannot make sense of are returned unchanged; callers validate
// with IsValidTime.
func NormalizeTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if strings.Count(s, ":") == 2 {
		parts := strings.SplitN(s, ":", 3)
		s = parts[0] + ":" + parts[1]
	}

	switch {
	case strings.Contains(s, ":"):
		hour, minute, _ := strings.Cut(s, ":")
		if len(hour) == 1 {
			hour = "0" + hour
		}
		if len(minute) == 1 {
			minute = "0" + minute
		}
		s = hour + ":" + minute
	case len(s) == 4 && isDigits(s):
		s = s[:2] + ":" + s[2:]
	case len(s) == 3 && isDigits(s):
		s = "0" + s[:1] + ":" + s[1:]
	}

	t, err := time.Parse("15:04", s)
	if err != nil {
		return s
	}
	return t.Format("15:04")
}

// IsValidTime reports whether s is a well-formed "HH:MM" clock time.
func IsValidTime(s string) bool {
	if s == "" {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
