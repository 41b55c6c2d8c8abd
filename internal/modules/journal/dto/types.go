package dto

type DayOutput struct {
	Day  int
	Text string
}

// PeriodOutput is one month of notes. Today is zero unless Key is the
// current period.
type PeriodOutput struct {
	Key           string
	Days          []DayOutput
	Today         int
	MaxTextLength int
}

// SetTextInput targets Day of Period, or of the current period when Period
// is empty.
type SetTextInput struct {
	Period string
	Day    int
	Text   string
}

// SetTextOutput echoes the stored text. Changed reports that canonicalization
// altered the input, so callers should reflect Text back to the user.
type SetTextOutput struct {
	Key     string
	Day     int
	Text    string
	Changed bool
}
