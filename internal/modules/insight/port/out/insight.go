package out

import (
	"context"

	"daybook/internal/modules/insight/domain"
)

// Index is the queryable projection of both documents. Writes issued inside
// a tx.Manager boundary share that transaction.
type Index interface {
	Reset(ctx context.Context) error
	ResetPeriod(ctx context.Context, periodKey string) error
	UpsertNote(ctx context.Context, note domain.Note) error
	UpsertMark(ctx context.Context, mark domain.Mark) error
	SearchNotes(ctx context.Context, query string) ([]domain.Note, error)
	HabitCounts(ctx context.Context, periodKey string) (map[string]int, error)
	NotedDays(ctx context.Context, periodKey string) (int, error)
}

type NoteSource interface {
	Periods(ctx context.Context) ([]string, error)
	Sheet(ctx context.Context, periodKey string) (domain.NoteSheet, error)
}

type MarkSource interface {
	Periods(ctx context.Context) ([]string, error)
	Sheet(ctx context.Context, periodKey string) (domain.MarkSheet, error)
}
