package domain

import (
	"strconv"
	"strings"

	"daybook/internal/platform/jsonfile"
)

const DefaultMaxTextLength = 62

// DayRecord is the note for one day of the open period.
type DayRecord struct {
	Number int
	Text   string
}

// DayTexts maps day-number strings ("1".."31") to note text for one period.
type DayTexts map[string]string

func (d DayTexts) MarshalJSON() ([]byte, error) {
	return jsonfile.MarshalDayKeyed(d)
}

// Document is the whole notes file: period key to that period's texts.
type Document map[string]DayTexts

// Canonicalize lower-cases text and truncates it to max runes. Applying it
// twice yields the same result as applying it once. max <= 0 disables
// truncation.
func Canonicalize(text string, max int) string {
	lowered := strings.ToLower(text)
	if max <= 0 {
		return lowered
	}
	runes := []rune(lowered)
	if len(runes) <= max {
		return lowered
	}
	return string(runes[:max])
}

// NewDays creates empty records for days 1..n.
func NewDays(n int) []DayRecord {
	days := make([]DayRecord, n)
	for i := range days {
		days[i] = DayRecord{Number: i + 1}
	}
	return days
}

// Apply copies saved texts onto matching records. Keys outside the record
// range are ignored.
func Apply(days []DayRecord, texts DayTexts) {
	for i := range days {
		if text, ok := texts[DayKey(days[i].Number)]; ok {
			days[i].Text = text
		}
	}
}

// TextsOf returns the persisted form of records, including empty days.
func TextsOf(days []DayRecord) DayTexts {
	texts := make(DayTexts, len(days))
	for _, d := range days {
		texts[DayKey(d.Number)] = d.Text
	}
	return texts
}

func DayKey(day int) string {
	return strconv.Itoa(day)
}
