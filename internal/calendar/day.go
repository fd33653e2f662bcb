// Package calendar normalizes calendar-day keys. A day key is the
// "YYYY-MM-DD" form of a date with no time or zone component; it is the only
// representation of a date that crosses into storage.
package calendar

import (
	"strings"
	"time"

	"github.com/mroshb/daymate/pkg/errors"
)

const KeyLayout = "2006-01-02"

// ParseDay accepts a day key or an RFC3339 timestamp and returns the
// normalized day key. Timestamps keep the calendar date they were written in.
func ParseDay(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New(errors.ErrCodeValidation, "date is required")
	}

	if t, err := time.Parse(KeyLayout, value); err == nil {
		return t.Format(KeyLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format(KeyLayout), nil
	}

	return "", errors.New(errors.ErrCodeValidation, "invalid date format, expected YYYY-MM-DD")
}

// FormatDay returns the day key of t in t's own location.
func FormatDay(t time.Time) string {
	return t.Format(KeyLayout)
}

// Today returns the day key of now.
func Today(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return FormatDay(now())
}

// MonthRange returns the first day of the month containing day and the first
// day of the following month, as a half-open range of day keys.
func MonthRange(day string) (string, string, error) {
	key, err := ParseDay(day)
	if err != nil {
		return "", "", err
	}
	t, _ := time.Parse(KeyLayout, key)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return FormatDay(start), FormatDay(start.AddDate(0, 1, 0)), nil
}

// DaysInRange lists every day key in [from, to).
func DaysInRange(from, to string) []string {
	start, err := time.Parse(KeyLayout, from)
	if err != nil {
		return nil
	}
	end, err := time.Parse(KeyLayout, to)
	if err != nil {
		return nil
	}

	var days []string
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDay(d))
	}
	return days
}
