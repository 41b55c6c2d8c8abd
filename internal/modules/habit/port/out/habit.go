package out

import (
	"context"

	"daybook/internal/modules/habit/domain"
)

type MarkStore interface {
	Bootstrap(ctx context.Context) error
	Load(ctx context.Context, periodKey string) (domain.PeriodMarks, error)
	Save(ctx context.Context, periodKey string, marks []domain.HabitMark) error
	Periods(ctx context.Context) ([]string, error)
}
