package parser

import (
	"testing"
	"time"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	cases := map[string]any{
		"":         nil,
		"  ":       nil,
		"12":       12.0,
		"1,234.5":  1234.5,
		" -7 ":     -7.0,
		"NaN":      nil,
		"+Inf":     nil,
		"12%":      nil,
		"1 000":    1000.0,
		"3.2e2":    320.0,
		"n/a":      nil,
	}
	for in, want := range cases {
		got := ParseNumber(in)
		if want == nil {
			if got != nil {
				t.Fatalf("ParseNumber(%q) want nil got %v", in, *got)
			}
			continue
		}
		if got == nil || *got != want.(float64) {
			t.Fatalf("ParseNumber(%q) want %v got %v", in, want, got)
		}
	}
}

func TestParseDate_Layouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2024-01-15",
		"2024/01/15",
		"2024/1/15",
		"01/15/2024",
		"15-Jan-2024",
		"Jan 15, 2024",
		"20240115",
		"45306",
		"2024-01-15 00:00:00",
	} {
		got := ParseDate(in)
		if got == nil {
			t.Fatalf("ParseDate(%q) returned nil", in)
		}
		if !DayOf(*got).Equal(want) {
			t.Fatalf("ParseDate(%q) want %s got %s", in, want, got)
		}
	}

	for _, in := range []string{"", "tomorrow", "0.5", "99999999999"} {
		if got := ParseDate(in); got != nil {
			t.Fatalf("ParseDate(%q) want nil got %s", in, got)
		}
	}
}

func TestWeekStart_Monday(t *testing.T) {
	t.Parallel()

	sunday := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	if got := FormatYearWeek(sunday); got != "2024-03-04" {
		t.Fatalf("sunday week start got %s", got)
	}
	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if got := FormatYearWeek(monday); got != "2024-03-11" {
		t.Fatalf("monday week start got %s", got)
	}
}
