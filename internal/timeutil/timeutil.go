package timeutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CanonicalLayout = "2006-01-02"
	// DisplayLayout is the short form the entry form expects, e.g. "Tue 5/13".
	DisplayLayout = "Mon 1/2"
)

var ErrUnknownDateFormat = errors.New("unknown date format")

// GridLayouts are tried in order when reading a date cell from the grid.
var GridLayouts = []string{
	"1/2/2006",
	CanonicalLayout,
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// SubmissionLayouts are accepted for dates of entries to be typed into the form.
var SubmissionLayouts = []string{
	CanonicalLayout,
	"1/2/2006",
}

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// Cutoff returns midnight of the day that lies days before now.
func Cutoff(now time.Time, days int) time.Time {
	return StartOfDay(now).AddDate(0, 0, -days)
}

func ParseDate(raw string, layouts []string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrUnknownDateFormat)
	}
	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (tried %s)", ErrUnknownDateFormat, value, strings.Join(layouts, ", "))
}

// FormatDisplay converts a submission date into the form's display form.
func FormatDisplay(raw string) (string, error) {
	parsed, err := ParseDate(raw, SubmissionLayouts)
	if err != nil {
		return "", err
	}
	return parsed.Format(DisplayLayout), nil
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
