package core

import (
	"testing"
	"time"
)

func TestPeriodOf(t *testing.T) {
	cases := []struct {
		month time.Month
		want  Period
	}{
		{time.January, "01"},
		{time.July, "07"},
		{time.December, "12"},
	}
	for _, tc := range cases {
		if got := PeriodOf(time.Date(2024, tc.month, 15, 0, 0, 0, 0, time.UTC)); got != tc.want {
			t.Fatalf("PeriodOf(%v): got %s, want %s", tc.month, got, tc.want)
		}
	}
}

func TestPeriodOfDate(t *testing.T) {
	p, err := PeriodOfDate("2024-01-05")
	if err != nil || p != "01" {
		t.Fatalf("got %s err=%v", p, err)
	}
	if _, err := PeriodOfDate("not-a-date"); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in   string
		want Period
		ok   bool
	}{
		{"01", "01", true},
		{"7", "07", true},
		{"12", "12", true},
		{" 3 ", "03", true},
		{"0", "", false},
		{"13", "", false},
		{"", "", false},
		{"ab", "", false},
	}
	for _, tc := range cases {
		got, err := ParsePeriod(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got %s err=%v", tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}
