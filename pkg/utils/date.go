package utils

import (
	"time"
)

const DateLayout = "2006-01-02"

func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// TrailingWindow returns the UTC day range [now-days, now].
func TrailingWindow(now time.Time, days int) (time.Time, time.Time) {
	end := now.UTC().Truncate(24 * time.Hour)
	return end.AddDate(0, 0, -days), end
}
