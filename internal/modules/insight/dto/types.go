package dto

type SearchInput struct {
	Query string
	Limit int
}

type NoteHit struct {
	Period string `json:"period"`
	Day    int    `json:"day"`
	Text   string `json:"text"`
}

type HabitStat struct {
	Habit   string  `json:"habit"`
	Checked int     `json:"checked"`
	Days    int     `json:"days"`
	Rate    float64 `json:"rate"`
}

type StatsOutput struct {
	Key       string      `json:"period"`
	Days      int         `json:"days"`
	NotedDays int         `json:"noted_days"`
	Habits    []HabitStat `json:"habits"`
}

type ReindexOutput struct {
	Periods int
	Notes   int
	Marks   int
}
