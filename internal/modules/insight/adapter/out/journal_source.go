package out

import (
	"context"

	"daybook/internal/modules/insight/domain"
	insightout "daybook/internal/modules/insight/port/out"
	journalin "daybook/internal/modules/journal/port/in"
)

type JournalSourceAdapter struct {
	journal journalin.Usecase
}

func NewJournalSourceAdapter(journal journalin.Usecase) insightout.NoteSource {
	return &JournalSourceAdapter{journal: journal}
}

func (a *JournalSourceAdapter) Periods(ctx context.Context) ([]string, error) {
	return a.journal.Periods(ctx)
}

// Sheet skips empty days; the index only holds written notes.
func (a *JournalSourceAdapter) Sheet(ctx context.Context, periodKey string) (domain.NoteSheet, error) {
	out, err := a.journal.Period(ctx, periodKey)
	if err != nil {
		return domain.NoteSheet{}, err
	}
	sheet := domain.NoteSheet{Key: out.Key, Days: len(out.Days)}
	for _, d := range out.Days {
		if d.Text == "" {
			continue
		}
		sheet.Notes = append(sheet.Notes, domain.Note{Period: out.Key, Day: d.Day, Text: d.Text})
	}
	return sheet, nil
}
