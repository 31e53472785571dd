package budget

import (
	"testing"
	"time"

	"github.com/markdias/abudgetapp-sub002/date"
)

func TestParseScheduleDate(t *testing.T) {
	tests := []struct {
		in       string
		wantKind ScheduleDateKind
		wantDay  int
	}{
		{"15", DayOfMonth, 15},
		{" 1 ", DayOfMonth, 1},
		{"31", DayOfMonth, 31},
		{"1st", DayOfMonth, 1},
		{"2nd", DayOfMonth, 2},
		{"3rd", DayOfMonth, 3},
		{"15th", DayOfMonth, 15},
		{"2026-03-15", CalendarDate, 15},
		{"2026-3-5", CalendarDate, 5},
		{"2026-03-15T00:00:00Z", CalendarDate, 15},
		{"2026-03-15T10:30:00.5Z", CalendarDate, 15},
		{"15/03/2026", CalendarDate, 15},
		{"15/03", DayOfMonth, 15},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseScheduleDate(tc.in)
			if err != nil {
				t.Fatalf("ParseScheduleDate(%q): %v", tc.in, err)
			}
			if got.Kind != tc.wantKind || got.DueDay() != tc.wantDay {
				t.Errorf("ParseScheduleDate(%q): got kind %v day %d, want kind %v day %d",
					tc.in, got.Kind, got.DueDay(), tc.wantKind, tc.wantDay)
			}
		})
	}
}

func TestParseScheduleDateRejects(t *testing.T) {
	for _, in := range []string{"", "0", "32", "99th", "not a date"} {
		if _, err := ParseScheduleDate(in); err == nil {
			t.Errorf("ParseScheduleDate(%q): expected error", in)
		}
	}
}

func TestParseYearlyDate(t *testing.T) {
	got, err := ParseYearlyDate("25-12-2024")
	if err != nil {
		t.Fatal(err)
	}
	if got.Day != 25 || got.Month != time.December || got.Year != 2024 {
		t.Errorf("got %+v", got)
	}
	if _, err := ParseYearlyDate("2024-12-25"); err == nil {
		t.Error("expected error for YYYY-MM-DD form")
	}
}

func TestDueDateClampsToMonthEnd(t *testing.T) {
	sd, err := ParseScheduleDate("31")
	if err != nil {
		t.Fatal(err)
	}
	if got := sd.DueDate(2026, time.February); got != date.New(2026, time.February, 28) {
		t.Errorf("February due date: got %v", got)
	}
	if got := sd.DueDate(2024, time.February); got != date.New(2024, time.February, 29) {
		t.Errorf("leap February due date: got %v", got)
	}
}

func TestYearlyDueOn(t *testing.T) {
	yd, err := ParseYearlyDate("25-12-2024")
	if err != nil {
		t.Fatal(err)
	}
	// fires on the same day and month of any year
	if !yd.DueOn(date.New(2026, time.December, 25)) {
		t.Error("expected due on 2026-12-25")
	}
	if yd.DueOn(date.New(2026, time.December, 24)) {
		t.Error("not due on 2026-12-24")
	}
	if yd.DueOn(date.New(2026, time.November, 25)) {
		t.Error("not due on 2026-11-25")
	}
}
