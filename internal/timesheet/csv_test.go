package timesheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kintai-backend/internal/model"
	"kintai-backend/internal/reconcile"
)

func TestWriteMonthLayout(t *testing.T) {
	events := []model.Attendance{
		{UserID: 1, Timestamp: "2025-01-06T09:00:00", Kind: model.KindIn},
		{UserID: 1, Timestamp: "2025-01-06T20:30:00", Kind: model.KindOut, Note: "release"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMonth(&buf, events, 2025, 1, "18:00"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeff"), "export starts with BOM")

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 32, "header plus 31 January days")
	assert.Equal(t, "日付,出勤時刻,退勤時刻,業務内容,残業時間", lines[0])
	assert.Equal(t, "2025/01/06,09:00,20:30,release,02:30", lines[6])
	assert.Equal(t, "2025/01/01,,,,", lines[1], "absent day is an empty row")
}

func TestRoundTrip(t *testing.T) {
	events := []model.Attendance{
		{UserID: 1, Timestamp: "2025-01-06T09:00:00", Kind: model.KindIn},
		{UserID: 1, Timestamp: "2025-01-06T18:45:00", Kind: model.KindOut, Note: "quarterly report"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMonth(&buf, events, 2025, 1, "18:00"))

	incoming, err := Parse(&buf)
	require.NoError(t, err)

	rec := incoming.Get("2025-01-06")
	require.NotNil(t, rec)
	assert.Equal(t, "09:00", rec.In.Time)
	assert.Equal(t, "2025-01-06T09:00:00", rec.In.Timestamp)
	assert.Equal(t, "18:45", rec.Out.Time)
	assert.Equal(t, "2025-01-06T18:45:00", rec.Out.Timestamp)
	assert.Equal(t, "quarterly report", rec.Out.Note)
	assert.Equal(t, 1, incoming.Len(), "empty rows do not become days")
}

func TestParseAcceptsColumnSubsetAndLooseTimes(t *testing.T) {
	csvData := "日付,出勤時刻,退勤時刻\n" +
		"2025/01/06,9:00,1830\n" +
		"2025-01-07,0900,\n"

	incoming, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, "2025-01-06T09:00:00", incoming.Entry("2025-01-06", model.KindIn).Timestamp)
	assert.Equal(t, "2025-01-06T18:30:00", incoming.Entry("2025-01-06", model.KindOut).Timestamp)
	assert.Equal(t, "09:00", incoming.Entry("2025-01-07", model.KindIn).Time)
	assert.Nil(t, incoming.Entry("2025-01-07", model.KindOut))
}

func TestParseRejectsMissingColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("日付,備考\n2025/01/06,x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "出勤時刻")
}

func TestParseNamesOffendingRow(t *testing.T) {
	csvData := "日付,出勤時刻,退勤時刻\n" +
		"2025/01/06,09:00,18:00\n" +
		"January 7th,09:00,18:00\n"

	_, err := Parse(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")

	csvData = "日付,出勤時刻,退勤時刻\n2025/01/06,late-ish,18:00\n"
	_, err = Parse(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParseStripsBOM(t *testing.T) {
	csvData := "\ufeff日付,出勤時刻,退勤時刻\n2025/01/06,09:00,\n"
	incoming, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.NotNil(t, incoming.Entry("2025-01-06", model.KindIn))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "SatoTaro_2025_01_勤怠記録.csv", Filename("SatoTaro", 2025, 1, "csv"))
	assert.Equal(t, "user_2025_12_勤怠記録.xlsx", Filename("佐藤太郎", 2025, 12, "xlsx"))
	assert.Equal(t, "ab_2025_03_勤怠記録.csv", Filename("a/../b", 2025, 3, "csv"))
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, 12)
	assert.Equal(t, "2024-12-01", start.Format(reconcile.DateLayout))
	assert.Equal(t, "2025-01-01", end.Format(reconcile.DateLayout))
}
