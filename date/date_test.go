package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-01", want: New(2025, time.July, 1)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "2024-02-29", want: New(2024, time.February, 29)},
		{in: "01/07/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) expected an error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) returned an unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDaysIn(t *testing.T) {
	testCases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}
	for _, tc := range testCases {
		if got := DaysIn(tc.year, tc.month); got != tc.want {
			t.Errorf("DaysIn(%d, %v) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestClamped(t *testing.T) {
	testCases := []struct {
		name  string
		year  int
		month time.Month
		day   int
		want  Date
	}{
		{"day 31 in february", 2025, time.February, 31, New(2025, time.February, 28)},
		{"day 31 in leap february", 2024, time.February, 31, New(2024, time.February, 29)},
		{"day 31 in april", 2025, time.April, 31, New(2025, time.April, 30)},
		{"valid day untouched", 2025, time.January, 15, New(2025, time.January, 15)},
		{"day zero snaps to first", 2025, time.March, 0, New(2025, time.March, 1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamped(tc.year, tc.month, tc.day); got != tc.want {
				t.Errorf("Clamped(%d, %v, %d) = %v, want %v", tc.year, tc.month, tc.day, got, tc.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	if got := New(2025, time.March, 9).Key(); got != "2025-03" {
		t.Errorf("Key() = %q, want %q", got, "2025-03")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2025, time.June, 5)
	raw, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() returned an unexpected error: %v", err)
	}
	if string(raw) != `"2025-06-05"` {
		t.Errorf("MarshalJSON() = %s, want %q", raw, `"2025-06-05"`)
	}
	var back Date
	if err := back.UnmarshalJSON(raw); err != nil {
		t.Fatalf("UnmarshalJSON() returned an unexpected error: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
