package out

import (
	"context"

	"daybook/internal/modules/journal/domain"
)

// NoteStore persists day texts in one document keyed by period.
type NoteStore interface {
	// Bootstrap creates an empty document when none exists yet.
	Bootstrap(ctx context.Context) error
	// Load returns the texts saved for periodKey. A missing or undecodable
	// document yields an empty mapping, not an error.
	Load(ctx context.Context, periodKey string) (domain.DayTexts, error)
	// Save replaces periodKey's entry and leaves every other period intact.
	Save(ctx context.Context, periodKey string, days []domain.DayRecord) error
	Periods(ctx context.Context) ([]string, error)
}
