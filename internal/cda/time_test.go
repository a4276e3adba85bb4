package cda

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"202403", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"20240301", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"202403011230", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)},
		{"20240301123045", time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)},
		{"20240301123045.123", time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)},
		{" 20240301 ", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		if err != nil {
			t.Errorf("ParseTime(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestParseTime_WithZone(t *testing.T) {
	got, err := ParseTime("20240301123045-0500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 3, 1, 17, 30, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// A zone on a date-only stamp is ignored rather than rejected.
	got, err = ParseTime("20240301-0500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 1 {
		t.Errorf("expected 2024-03-01, got %v", got)
	}
}

func TestParseTime_Invalid(t *testing.T) {
	for _, in := range []string{"", "202", "2024030", "not-a-time"} {
		if _, err := ParseTime(in); err == nil {
			t.Errorf("ParseTime(%q): expected error", in)
		}
	}
}

func TestSplitTimeZone(t *testing.T) {
	tests := []struct {
		in, body, zone string
	}{
		{"20240301123045-0500", "20240301123045", "-0500"},
		{"20240301123045+0930", "20240301123045", "+0930"},
		{"20240301", "20240301", ""},
	}

	for _, tt := range tests {
		body, zone := SplitTimeZone(tt.in)
		if body != tt.body || zone != tt.zone {
			t.Errorf("SplitTimeZone(%q): expected (%q, %q), got (%q, %q)",
				tt.in, tt.body, tt.zone, body, zone)
		}
	}
}
