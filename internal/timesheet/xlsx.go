package timesheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"kintai-backend/internal/model"
	"kintai-backend/internal/reconcile"
)

// WriteMonthXLSX renders the same month view as WriteMonth into a spreadsheet,
// one sheet named after the month. Callers own closing the returned file.
func WriteMonthXLSX(events []model.Attendance, year, month int, threshold string) (*excelize.File, error) {
	days, err := reconcile.GroupEvents(events)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := fmt.Sprintf("%d-%02d", year, month)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	start, end := MonthRange(year, month)
	rowNum := 2
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		cells := dayRow(day, days.Get(day.Format(reconcile.DateLayout)), threshold)
		row := make([]interface{}, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", rowNum), &row); err != nil {
			f.Close()
			return nil, err
		}
		rowNum++
	}
	return f, nil
}
