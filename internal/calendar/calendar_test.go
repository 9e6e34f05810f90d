package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2025, time.January, 31},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d): got %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestFirstWeekday(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 0},  // Monday
		{2025, time.June, 6},     // Sunday
		{2025, time.October, 2},  // Wednesday
		{2023, time.December, 4}, // Friday
	}

	for _, tt := range tests {
		if got := FirstWeekday(tt.year, tt.month); got != tt.want {
			t.Errorf("FirstWeekday(%d, %d): got %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestShiftMonth(t *testing.T) {
	jan31 := time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)

	next := ShiftMonth(jan31, 1)
	if next.Year() != 2024 || next.Month() != time.February || next.Day() != 1 {
		t.Errorf("Jan 31 + 1 month: got %s", next.Format(DateLayout))
	}

	tests := []struct {
		name  string
		from  time.Time
		delta int
		want  string
	}{
		{"december rolls into january", time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC), 1, "2025-01-01"},
		{"january rolls back into december", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), -1, "2024-12-01"},
		{"march 31 back to february", time.Date(2023, time.March, 31, 0, 0, 0, 0, time.UTC), -1, "2023-02-01"},
		{"zero delta clamps day", time.Date(2023, time.March, 31, 0, 0, 0, 0, time.UTC), 0, "2023-03-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateKey(ShiftMonth(tt.from, tt.delta)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestShiftYear(t *testing.T) {
	leap := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	if got := DateKey(ShiftYear(leap, 1)); got != "2025-02-01" {
		t.Errorf("Feb 29 + 1 year: got %s, want 2025-02-01", got)
	}
	if got := DateKey(ShiftYear(leap, -1)); got != "2023-02-01" {
		t.Errorf("Feb 29 - 1 year: got %s, want 2023-02-01", got)
	}
}

func TestGrid(t *testing.T) {
	// June 2025 starts on a Sunday and has 30 days.
	rows := Grid(2025, time.June)
	if len(rows) != 6 {
		t.Fatalf("rows: got %d, want 6", len(rows))
	}
	if rows[0][6] != 1 {
		t.Errorf("first day column: got %v", rows[0])
	}
	for col := 0; col < 6; col++ {
		if rows[0][col] != 0 {
			t.Errorf("padding cell %d: got %d", col, rows[0][col])
		}
	}
	if rows[5][0] != 30 {
		t.Errorf("last row: got %v", rows[5])
	}

	// February 2021 fits exactly in four rows.
	if rows := Grid(2021, time.February); len(rows) != 4 || rows[3][6] != 28 {
		t.Errorf("February 2021: got %v", rows)
	}

	seen := 0
	for _, row := range Grid(2024, time.February) {
		for _, day := range row {
			if day != 0 {
				seen++
			}
		}
	}
	if seen != 29 {
		t.Errorf("February 2024 cells: got %d, want 29", seen)
	}
}

func TestParseDateKey(t *testing.T) {
	got, err := ParseDateKey("2025-06-10", time.UTC)
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.June || got.Day() != 10 {
		t.Errorf("got %v", got)
	}

	for _, bad := range []string{"", "2025-6-10", "2025-06-31", "10/06/2025", "2025-06-10T00:00"} {
		if _, err := ParseDateKey(bad, time.UTC); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDateKey(%q): expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		clock   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"00:00", 0, 0, false},
		{"09:05", 9, 5, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"9:05", 0, 0, true},
		{"09-05", 0, 0, true},
		{"ab:cd", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			h, m, err := ParseClock(tt.clock)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTime) {
					t.Errorf("expected ErrInvalidTime, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if h != tt.hour || m != tt.minute {
				t.Errorf("got %02d:%02d", h, m)
			}
			if FormatClock(h, m) != tt.clock {
				t.Errorf("FormatClock: got %s, want %s", FormatClock(h, m), tt.clock)
			}
		})
	}
}

func TestAt(t *testing.T) {
	got, err := At("2025-06-10", "09:00", time.UTC)
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	want := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := At("2025-06-10", "9am", time.UTC); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("expected ErrInvalidTime, got %v", err)
	}
	if _, err := At("june", "09:00", time.UTC); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestKeyFor(t *testing.T) {
	if got := KeyFor(2025, time.June, 3); got != "2025-06-03" {
		t.Errorf("got %s", got)
	}
}
