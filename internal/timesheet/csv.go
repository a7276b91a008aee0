// Package timesheet maps attendance records to and from the monthly
// timesheet file formats. The CSV layout (UTF-8 with BOM, Japanese header,
// one row per calendar day) is the interchange format the import side must
// round-trip with.
package timesheet

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"kintai-backend/internal/model"
	"kintai-backend/internal/reconcile"
)

const utf8BOM = "\ufeff"

// maxRows caps uploads; a month can never need more.
const maxRows = 1000

const (
	colDate = "日付"
	colIn   = "出勤時刻"
	colOut  = "退勤時刻"
	colNote = "業務内容"
	colOT   = "残業時間"
)

// Header is the fixed CSV header row. Imports accept any file carrying at
// least the first three columns.
var Header = []string{colDate, colIn, colOut, colNote, colOT}

// rowDateLayout is the per-row date format, distinct from the ISO keys used
// internally.
const rowDateLayout = "2006/01/02"

// WriteMonth renders one user's month as CSV: every calendar day gets a row,
// present or not, with the overtime column computed against threshold.
func WriteMonth(w io.Writer, events []model.Attendance, year, month int, threshold string) error {
	days, err := reconcile.GroupEvents(events)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	start, end := MonthRange(year, month)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		if err := cw.Write(dayRow(day, days.Get(day.Format(reconcile.DateLayout)), threshold)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func dayRow(day time.Time, rec *reconcile.DayRecord, threshold string) []string {
	var inTime, outTime, note string
	if rec != nil {
		if rec.In != nil {
			inTime = rec.In.Time
			note = rec.In.Note
		}
		if rec.Out != nil {
			outTime = rec.Out.Time
			if rec.Out.Note != "" {
				note = rec.Out.Note
			}
		}
	}
	overtime := ""
	if outTime != "" {
		overtime = reconcile.CalculateOvertime(outTime, threshold, inTime)
	}
	return []string{day.Format(rowDateLayout), inTime, outTime, note, overtime}
}

// Parse reads an uploaded timesheet CSV into an incoming DaySet. The whole
// batch is rejected on the first bad row, with the error naming the row
// number (the header is row 1).
func Parse(r io.Reader) (*reconcile.DaySet, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1 // exports may carry the full header, edits a subset

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDate, colIn, colOut} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("required column %q not found", required)
		}
	}

	incoming := reconcile.NewDaySet()
	for rowNum := 2; ; rowNum++ {
		if rowNum > maxRows+1 {
			return nil, fmt.Errorf("file exceeds %d data rows", maxRows)
		}
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		dateStr := strings.TrimSpace(field(record, cols, colDate))
		if dateStr == "" {
			continue
		}
		date, err := parseRowDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q", rowNum, dateStr)
		}
		note := strings.TrimSpace(field(record, cols, colNote))

		for _, side := range []struct {
			col  string
			kind string
		}{{colIn, model.KindIn}, {colOut, model.KindOut}} {
			raw := strings.TrimSpace(field(record, cols, side.col))
			if raw == "" {
				continue
			}
			clock := reconcile.NormalizeTime(raw)
			if !reconcile.IsValidTime(clock) {
				return nil, fmt.Errorf("row %d: invalid %s time %q", rowNum, side.col, raw)
			}
			incoming.Set(date, side.kind, reconcile.Entry{
				Timestamp: date + "T" + clock + ":00",
				Time:      clock,
				Note:      note,
			})
		}
	}
	return incoming, nil
}

// parseRowDate accepts the export format (2006/01/02) and the ISO form a
// hand-edited file may use, returning the ISO key.
func parseRowDate(s string) (string, error) {
	for _, layout := range []string{rowDateLayout, reconcile.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(reconcile.DateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// MonthRange returns the first day of the month and the first day of the
// next month.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}
