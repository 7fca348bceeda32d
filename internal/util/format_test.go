package util

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in     *float64
		digits int
		want   string
	}{
		{nil, 2, "n/a"},
		{ptr(math.NaN()), 2, "n/a"},
		{ptr(1234.4), 0, "1234"},
		{ptr(3.14159), 2, "3.14"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.in, c.digits); got != c.want {
			t.Fatalf("FormatNumber(%v, %d) = %q, want %q", c.in, c.digits, got, c.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(ptr(5)); got != "5.00%" {
		t.Fatalf("got %q", got)
	}
	if got := FormatSignedPercent(ptr(0.25)); got != "+25.00%" {
		t.Fatalf("got %q", got)
	}
	if got := FormatSignedPercent(ptr(-0.1)); got != "-10.00%" {
		t.Fatalf("got %q", got)
	}
	if got := FormatSignedPercent(nil); got != Unknown {
		t.Fatalf("got %q", got)
	}
}
