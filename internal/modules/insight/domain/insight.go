package domain

// Note is one non-empty journal entry as projected into the index.
type Note struct {
	Period string
	Day    int
	Text   string
}

// Mark is one habit cell as projected into the index.
type Mark struct {
	Period  string
	Habit   string
	Day     int
	Checked bool
}

// NoteSheet is a period's notes as read from the journal.
type NoteSheet struct {
	Key   string
	Days  int
	Notes []Note
}

// MarkSheet is a period's habit grid as read from the habit tracker.
type MarkSheet struct {
	Key    string
	Days   int
	Habits []string
	Marks  []Mark
}

type HabitStat struct {
	Habit   string
	Checked int
	Days    int
}

// Rate is the share of the period's days on which the habit was checked.
func (h HabitStat) Rate() float64 {
	if h.Days == 0 {
		return 0
	}
	return float64(h.Checked) / float64(h.Days)
}

type PeriodStats struct {
	Key       string
	Days      int
	NotedDays int
	Habits    []HabitStat
}

type RebuildSummary struct {
	Periods int
	Notes   int
	Marks   int
}
