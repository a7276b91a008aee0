package timesheet

import (
	"fmt"
	"regexp"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Filename builds the download name for a monthly export.
func Filename(name string, year, month int, ext string) string {
	return fmt.Sprintf("%s_%d_%02d_勤怠記録.%s", sanitizeName(name), year, month, ext)
}

// BulkFilename names the ZIP of a bulk export.
func BulkFilename(year, month int) string {
	return fmt.Sprintf("勤怠記録_%d_%02d_一括.zip", year, month)
}

// sanitizeName strips everything that is not safe in a filename. Names that
// vanish entirely (e.g. fully non-ASCII) fall back to "user".
func sanitizeName(name string) string {
	safe := unsafeChars.ReplaceAllString(name, "")
	if safe == "" {
		return "user"
	}
	return safe
}
