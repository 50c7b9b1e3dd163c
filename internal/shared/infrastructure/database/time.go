package database

import "time"

// timeLayout is fixed width so stored timestamps order lexically on both drivers.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t as fixed-width UTC text for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime parses a timestamp written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// FormatNullableTime returns nil for the zero time.
func FormatNullableTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return FormatTime(*t)
}
