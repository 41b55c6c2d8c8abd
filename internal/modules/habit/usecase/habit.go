package usecase

import (
	"context"

	"daybook/internal/modules/habit/domain"
	"daybook/internal/modules/habit/dto"
	habitin "daybook/internal/modules/habit/port/in"
	"daybook/internal/modules/habit/service"
)

type Interactor struct {
	svc *service.HabitService
}

func NewInteractor(svc *service.HabitService) habitin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Bootstrap(ctx context.Context) error {
	return i.svc.Bootstrap(ctx)
}

func (i *Interactor) Current(ctx context.Context) (dto.BoardOutput, error) {
	key, marks, err := i.svc.Current(ctx)
	if err != nil {
		return dto.BoardOutput{}, err
	}
	return toBoard(key, i.svc.Names(), marks, i.svc.Today()), nil
}

func (i *Interactor) Set(ctx context.Context, input dto.SetMarkInput) (dto.MarkOutput, error) {
	key, mark, err := i.svc.Set(ctx, input.Habit, input.Day, input.Checked)
	return toMark(key, mark), err
}

func (i *Interactor) Toggle(ctx context.Context, input dto.ToggleMarkInput) (dto.MarkOutput, error) {
	key, mark, err := i.svc.Toggle(ctx, input.Habit, input.Day)
	return toMark(key, mark), err
}

func (i *Interactor) Period(ctx context.Context, key string) (dto.BoardOutput, error) {
	canonicalKey, names, marks, err := i.svc.Period(ctx, key)
	if err != nil {
		return dto.BoardOutput{}, err
	}
	today := 0
	if canonicalKey == i.svc.CurrentKey() {
		today = i.svc.Today()
	}
	return toBoard(canonicalKey, names, marks, today), nil
}

func (i *Interactor) Periods(ctx context.Context) ([]string, error) {
	return i.svc.Periods(ctx)
}

func (i *Interactor) Names(_ context.Context) []string {
	return i.svc.Names()
}

func toMark(key string, mark domain.HabitMark) dto.MarkOutput {
	if mark.Day == 0 {
		return dto.MarkOutput{}
	}
	return dto.MarkOutput{Key: key, Habit: mark.Habit, Day: mark.Day, Checked: mark.Checked}
}

func toBoard(key string, names []string, marks []domain.HabitMark, today int) dto.BoardOutput {
	days := 0
	if len(names) > 0 {
		days = len(marks) / len(names)
	}
	out := dto.BoardOutput{Key: key, Days: days, Today: today, Habits: names, Checked: make([][]bool, len(names))}
	for h := range names {
		row := make([]bool, days)
		for d := 0; d < days; d++ {
			row[d] = marks[h*days+d].Checked
		}
		out.Checked[h] = row
	}
	return out
}
