package budget

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markdias/abudgetapp-sub002/date"
)

// ScheduleDateKind discriminates the parsed form of a recurring-payment date.
type ScheduleDateKind int

const (
	// DayOfMonth is a bare recurring day (1..31).
	DayOfMonth ScheduleDateKind = iota
	// CalendarDate is a full calendar date; only its day of month drives
	// monthly recurrence.
	CalendarDate
	// YearlyDate is a fixed annual date, compared by day and month only.
	YearlyDate
)

// ScheduleDate is the normalized form of the heterogeneous date strings a
// recurring record may carry. It is parsed once at the boundary so the
// processor never touches strings.
type ScheduleDate struct {
	Kind  ScheduleDateKind
	Day   int
	Month time.Month // YearlyDate and CalendarDate only
	Year  int        // YearlyDate and CalendarDate only
}

var ordinalRe = regexp.MustCompile(`^(\d{1,2})(st|nd|rd|th)$`)

// ParseScheduleDate normalizes a recurring-payment date string. Accepted
// forms: a bare day-of-month integer ("15"), an ordinal ("15th"), an
// ISO-8601 timestamp, "yyyy-MM-dd", "dd/MM/yyyy" and "dd/MM".
func ParseScheduleDate(s string) (ScheduleDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ScheduleDate{}, fmt.Errorf("empty schedule date")
	}

	if day, err := strconv.Atoi(s); err == nil {
		return dayOfMonth(day)
	}
	if m := ordinalRe.FindStringSubmatch(strings.ToLower(s)); m != nil {
		day, _ := strconv.Atoi(m[1])
		return dayOfMonth(day)
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(date.FromTime(t)), nil
		}
	}
	if d, err := date.Parse(s); err == nil {
		return calendarDate(d), nil
	}
	if t, err := time.Parse("2/1/2006", s); err == nil {
		return calendarDate(date.FromTime(t)), nil
	}
	if t, err := time.Parse("2/1", s); err == nil {
		return dayOfMonth(t.Day())
	}
	return ScheduleDate{}, fmt.Errorf("unrecognized schedule date %q", s)
}

// ParseYearlyDate parses the distinct "DD-MM-YYYY" field of yearly records.
func ParseYearlyDate(s string) (ScheduleDate, error) {
	t, err := time.Parse("2-1-2006", strings.TrimSpace(s))
	if err != nil {
		return ScheduleDate{}, fmt.Errorf("invalid yearly date %q want format DD-MM-YYYY: %w", s, err)
	}
	return ScheduleDate{Kind: YearlyDate, Day: t.Day(), Month: t.Month(), Year: t.Year()}, nil
}

func dayOfMonth(day int) (ScheduleDate, error) {
	if day < 1 || day > 31 {
		return ScheduleDate{}, fmt.Errorf("day of month %d out of range", day)
	}
	return ScheduleDate{Kind: DayOfMonth, Day: day}, nil
}

func calendarDate(d date.Date) ScheduleDate {
	return ScheduleDate{Kind: CalendarDate, Day: d.Day(), Month: d.Month(), Year: d.Year()}
}

// DueDay reduces the schedule date to the recurring day of month.
func (d ScheduleDate) DueDay() int { return d.Day }

// DueDate computes the candidate due date for the given year and month, with
// the day clamped to the last valid day of that month.
func (d ScheduleDate) DueDate(year int, month time.Month) date.Date {
	return date.Clamped(year, month, d.Day)
}

// DueOn reports whether a yearly date fires on the given day: same day and
// month, any year.
func (d ScheduleDate) DueOn(on date.Date) bool {
	return d.Kind == YearlyDate && d.Day == on.Day() && d.Month == on.Month()
}

func (d ScheduleDate) String() string {
	switch d.Kind {
	case DayOfMonth:
		return strconv.Itoa(d.Day)
	case CalendarDate:
		return date.New(d.Year, d.Month, d.Day).String()
	case YearlyDate:
		return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
	default:
		return "invalid"
	}
}
