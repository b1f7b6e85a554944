package timeutil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestCutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 31, 16, 5, 0, 0, time.Local)
	got := Cutoff(now, 30)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "us padded", input: "05/13/2025", want: "2025-05-13"},
		{name: "us unpadded", input: "5/3/2025", want: "2025-05-03"},
		{name: "iso", input: "2025-05-13", want: "2025-05-13"},
		{name: "german", input: "13.05.2025", want: "2025-05-13"},
		{name: "month name", input: "May 13, 2025", want: "2025-05-13"},
		{name: "surrounding space", input: "  05/13/2025 ", want: "2025-05-13"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDate(tc.input, GridLayouts)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownDateFormat) {
					t.Fatalf("expected ErrUnknownDateFormat for %q, got %v", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.input, err)
			}
			if formatted := got.Format(CanonicalLayout); formatted != tc.want {
				t.Fatalf("unexpected date for %q: want %s, got %s", tc.input, tc.want, formatted)
			}
		})
	}
}

func TestFormatDisplay(t *testing.T) {
	t.Parallel()

	got, err := FormatDisplay("2025-05-13")
	if err != nil {
		t.Fatalf("format display: %v", err)
	}
	if got != "Tue 5/13" {
		t.Fatalf("expected Tue 5/13, got %q", got)
	}

	got, err = FormatDisplay("01/05/2026")
	if err != nil {
		t.Fatalf("format display: %v", err)
	}
	if got != "Mon 1/5" {
		t.Fatalf("expected Mon 1/5, got %q", got)
	}

	if _, err := FormatDisplay("not-a-date"); !errors.Is(err, ErrUnknownDateFormat) {
		t.Fatalf("expected ErrUnknownDateFormat, got %v", err)
	}
}

func TestSleep_ReturnsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := Sleep(context.Background(), 0); err != nil {
		t.Fatalf("expected zero sleep to succeed, got %v", err)
	}
}
