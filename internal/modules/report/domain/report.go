package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayLine is one day of an exported month.
type DayLine struct {
	Day    int
	Text   string
	Habits []string
}

// MonthReport is the exported view of one period.
type MonthReport struct {
	Key         string
	Slug        string
	Days        int
	Habits      []string
	GeneratedAt time.Time
	Lines       []DayLine
}

func (r MonthReport) Validate() error {
	if strings.TrimSpace(r.Key) == "" {
		return fmt.Errorf("period key is required")
	}
	if r.Days < 28 || r.Days > 31 {
		return fmt.Errorf("invalid day count %d for %s", r.Days, r.Key)
	}
	if len(r.Lines) != r.Days {
		return fmt.Errorf("expected %d day lines for %s, got %d", r.Days, r.Key, len(r.Lines))
	}
	return nil
}

// NotedDays counts days with a note.
func (r MonthReport) NotedDays() int {
	n := 0
	for _, l := range r.Lines {
		if l.Text != "" {
			n++
		}
	}
	return n
}

// Body renders one line per day. Days with neither a note nor a ticked habit
// render as a bare day number so the month stays scannable.
func (r MonthReport) Body() string {
	b := strings.Builder{}
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "- **%02d**", l.Day)
		if l.Text != "" {
			b.WriteString(" " + inline(l.Text))
		}
		if len(l.Habits) > 0 {
			b.WriteString(" · " + inline(strings.Join(l.Habits, ", ")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// inline stops user text from opening an HTML comment, so a note can never
// carry a marker that ends the generated block.
func inline(s string) string {
	return strings.ReplaceAll(s, "<!--", "&lt;!--")
}
