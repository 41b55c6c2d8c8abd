package dto

// BoardOutput is one period's habit grid. Checked is indexed
// [habit][day-1] in the order of Habits.
type BoardOutput struct {
	Key     string
	Days    int
	Today   int
	Habits  []string
	Checked [][]bool
}

type SetMarkInput struct {
	Habit   string
	Day     int
	Checked bool
}

type ToggleMarkInput struct {
	Habit string
	Day   int
}

type MarkOutput struct {
	Key     string
	Habit   string
	Day     int
	Checked bool
}
