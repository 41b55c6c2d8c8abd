package out

import (
	"context"

	habitin "daybook/internal/modules/habit/port/in"
	"daybook/internal/modules/insight/domain"
	insightout "daybook/internal/modules/insight/port/out"
)

type HabitSourceAdapter struct {
	habits habitin.Usecase
}

func NewHabitSourceAdapter(habits habitin.Usecase) insightout.MarkSource {
	return &HabitSourceAdapter{habits: habits}
}

func (a *HabitSourceAdapter) Periods(ctx context.Context) ([]string, error) {
	return a.habits.Periods(ctx)
}

func (a *HabitSourceAdapter) Sheet(ctx context.Context, periodKey string) (domain.MarkSheet, error) {
	board, err := a.habits.Period(ctx, periodKey)
	if err != nil {
		return domain.MarkSheet{}, err
	}
	sheet := domain.MarkSheet{Key: board.Key, Days: board.Days, Habits: board.Habits}
	for h, habit := range board.Habits {
		for d, checked := range board.Checked[h] {
			sheet.Marks = append(sheet.Marks, domain.Mark{Period: board.Key, Habit: habit, Day: d + 1, Checked: checked})
		}
	}
	return sheet, nil
}
