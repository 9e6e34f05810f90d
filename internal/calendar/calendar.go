// Package calendar provides the date arithmetic behind the month view.
//
// Everything here is pure: no I/O, no clock reads. Dates are keyed as
// "YYYY-MM-DD" strings and task times as 24-hour "HH:MM" clocks, both
// interpreted in the caller's location.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DateLayout is the layout of a date key.
	DateLayout = "2006-01-02"

	// ClockLayout is the layout of a task time.
	ClockLayout = "15:04"
)

var (
	// ErrInvalidDate is returned for a malformed date key.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidTime is returned for a malformed clock.
	ErrInvalidTime = errors.New("invalid time")
)

// Weekdays lists the grid column headers, Monday first.
var Weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DaysInMonth returns the number of days in the given month, computed as
// the first day of the following month minus one day.
func DaysInMonth(year int, month time.Month) int {
	next := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return next.AddDate(0, 0, -1).Day()
}

// FirstWeekday returns the column of the first day of the month,
// Monday-indexed (Monday = 0, Sunday = 6).
func FirstWeekday(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return (int(first.Weekday()) + 6) % 7
}

// ShiftMonth moves date by delta months. The day is clamped to 1 first so
// that e.g. January 31 + 1 month lands in February instead of overflowing.
func ShiftMonth(date time.Time, delta int) time.Time {
	return time.Date(date.Year(), date.Month()+time.Month(delta), 1,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

// ShiftYear moves date by delta years, clamping the day to 1 like ShiftMonth.
func ShiftYear(date time.Time, delta int) time.Time {
	return time.Date(date.Year()+delta, date.Month(), 1,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

// Grid lays the month out in Monday-first week rows. Cells outside the
// month hold 0.
func Grid(year int, month time.Month) [][7]int {
	days := DaysInMonth(year, month)
	col := FirstWeekday(year, month)

	var rows [][7]int
	var row [7]int
	for day := 1; day <= days; day++ {
		row[col] = day
		col++
		if col > 6 {
			rows = append(rows, row)
			row = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		rows = append(rows, row)
	}
	return rows
}

// DateKey formats t as a "YYYY-MM-DD" key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// KeyFor builds the date key for a day of a month.
func KeyFor(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseDateKey parses a "YYYY-MM-DD" key in loc. Non-canonical forms such
// as "2025-6-1" are rejected.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil || t.Format(DateLayout) != key {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, key)
	}
	return t, nil
}

// ParseClock parses a 24-hour "HH:MM" clock.
func ParseClock(clock string) (hour, minute int, err error) {
	if len(clock) != 5 || clock[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q (want HH:MM)", ErrInvalidTime, clock)
	}
	hour, ok1 := twoDigits(clock[0:2])
	minute, ok2 := twoDigits(clock[3:5])
	if !ok1 || !ok2 || hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q (want HH:MM)", ErrInvalidTime, clock)
	}
	return hour, minute, nil
}

// FormatClock formats an hour and minute as "HH:MM".
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// At combines a date key and a clock into a point in time in loc.
func At(dateKey, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDateKey(dateKey, loc)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
