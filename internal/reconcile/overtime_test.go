package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOvertimeStandard(t *testing.T) {
	assert.Equal(t, "02:30", CalculateOvertime("20:30", "18:00", "09:00"))
}

func TestCalculateOvertimeBeforeThreshold(t *testing.T) {
	assert.Equal(t, "", CalculateOvertime("17:30", "18:00", "09:00"))
}

func TestCalculateOvertimeLateClockInRaisesThreshold(t *testing.T) {
	assert.Equal(t, "03:00", CalculateOvertime("22:00", "18:00", "19:00"))
}

func TestCalculateOvertimeEdges(t *testing.T) {
	assert.Equal(t, "", CalculateOvertime("", "18:00", "09:00"), "no clock-out")
	assert.Equal(t, "", CalculateOvertime("18:00", "18:00", "09:00"), "exactly at threshold")
	assert.Equal(t, "", CalculateOvertime("half past", "18:00", "09:00"), "malformed degrades to empty")
	assert.Equal(t, "", CalculateOvertime("19:00", "garbage", ""), "malformed threshold")
	assert.Equal(t, "01:00", CalculateOvertime("19:00", "", ""), "default threshold applies")
	assert.Equal(t, "01:00", CalculateOvertime("19:00", "18:00", "nope"), "bad IN is ignored")
}

func TestWeekdayName(t *testing.T) {
	mon := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "月", WeekdayName(mon))
	assert.Equal(t, "日", WeekdayName(mon.AddDate(0, 0, 6)))
}
