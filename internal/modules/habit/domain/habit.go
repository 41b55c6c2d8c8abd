package domain

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "daybook/internal/platform/errors"
	"daybook/internal/platform/jsonfile"
)

// HabitMark records whether one habit was done on one day.
type HabitMark struct {
	Habit   string
	Day     int
	Checked bool
}

// DayMarks maps day-number strings to the checked flag for one habit.
type DayMarks map[string]bool

func (d DayMarks) MarshalJSON() ([]byte, error) {
	return jsonfile.MarshalDayKeyed(d)
}

// PeriodMarks maps habit name to its day marks within one period.
type PeriodMarks map[string]DayMarks

// Document is the whole habits file: period key to that period's marks.
type Document map[string]PeriodMarks

// NewMarks builds unchecked marks for every habit and day, habit-major.
func NewMarks(habits []string, days int) []HabitMark {
	marks := make([]HabitMark, 0, len(habits)*days)
	for _, h := range habits {
		for d := 1; d <= days; d++ {
			marks = append(marks, HabitMark{Habit: h, Day: d})
		}
	}
	return marks
}

// ApplyMarks copies saved flags onto matching marks. Entries for habits or
// days not present in marks are ignored.
func ApplyMarks(marks []HabitMark, saved PeriodMarks) {
	for i := range marks {
		days, ok := saved[marks[i].Habit]
		if !ok {
			continue
		}
		if checked, ok := days[strconv.Itoa(marks[i].Day)]; ok {
			marks[i].Checked = checked
		}
	}
}

// MarksOf returns the persisted form of marks, including unchecked days.
func MarksOf(marks []HabitMark) PeriodMarks {
	out := PeriodMarks{}
	for _, m := range marks {
		days, ok := out[m.Habit]
		if !ok {
			days = DayMarks{}
			out[m.Habit] = days
		}
		days[strconv.Itoa(m.Day)] = m.Checked
	}
	return out
}

// Index returns the position of (habit, day) in a habit-major slice built by
// NewMarks, or -1.
func Index(habits []string, days int, habit string, day int) int {
	if day < 1 || day > days {
		return -1
	}
	for i, h := range habits {
		if h == habit {
			return i*days + day - 1
		}
	}
	return -1
}

// ValidateNames rejects empty, duplicate or too many habit names.
func ValidateNames(names []string, max int) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one habit is required", apperrors.ErrInvalidInput)
	}
	if max > 0 && len(names) > max {
		return fmt.Errorf("%w: at most %d habits, got %d", apperrors.ErrInvalidInput, max, len(names))
	}
	seen := map[string]bool{}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%w: empty habit name", apperrors.ErrInvalidInput)
		}
		if seen[n] {
			return fmt.Errorf("%w: duplicate habit %q", apperrors.ErrInvalidInput, n)
		}
		seen[n] = true
	}
	return nil
}
