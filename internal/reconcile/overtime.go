package reconcile

import (
	"fmt"
	"time"
)

// DefaultOvertimeThreshold applies when a user has no threshold configured.
const DefaultOvertimeThreshold = "18:00"

// CalculateOvertime returns the overtime worked on a day as zero-padded
// "HH:MM", or "" when there is none (absent OUT, OUT at or before the
// threshold, or malformed inputs). The effective threshold is the later of
// the configured threshold and the IN time: whoever clocks in after the
// nominal threshold accrues overtime only from their actual clock-in.
func CalculateOvertime(outTime, threshold, inTime string) string {
	if outTime == "" {
		return ""
	}
	if threshold == "" {
		threshold = DefaultOvertimeThreshold
	}

	out, err := time.Parse("15:04", outTime)
	if err != nil {
		return ""
	}
	start, err := time.Parse("15:04", threshold)
	if err != nil {
		return ""
	}
	if inTime != "" {
		if in, err := time.Parse("15:04", inTime); err == nil && in.After(start) {
			start = in
		}
	}

	if !out.After(start) {
		return ""
	}
	minutes := int(out.Sub(start).Minutes())
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

var weekdayNames = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// WeekdayName returns the Japanese weekday label used in the logs view.
func WeekdayName(t time.Time) string {
	return weekdayNames[t.Weekday()]
}
