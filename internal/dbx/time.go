package dbx

import (
	"fmt"
	"time"
)

// TimeLayout matches SQLite's CURRENT_TIMESTAMP text, so stored values
// compare lexically in chronological order.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a timestamp column. Depending on the declared column type
// the driver hands back either the stored text or an already formatted
// time, so both shapes are accepted. The result is in UTC.
func ParseTime(s string) (time.Time, error) {
	layouts := []string{
		TimeLayout,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999 -0700 MST",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
