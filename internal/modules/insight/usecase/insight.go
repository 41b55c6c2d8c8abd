package usecase

import (
	"context"

	"daybook/internal/modules/insight/dto"
	insightin "daybook/internal/modules/insight/port/in"
	"daybook/internal/modules/insight/service"
)

type Interactor struct {
	svc *service.InsightService
}

func NewInteractor(svc *service.InsightService) insightin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	summary, err := i.svc.Rebuild(ctx)
	if err != nil {
		return dto.ReindexOutput{}, err
	}
	return dto.ReindexOutput{Periods: summary.Periods, Notes: summary.Notes, Marks: summary.Marks}, nil
}

func (i *Interactor) Search(ctx context.Context, input dto.SearchInput) ([]dto.NoteHit, error) {
	notes, err := i.svc.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NoteHit, 0, len(notes))
	for _, n := range notes {
		out = append(out, dto.NoteHit{Period: n.Period, Day: n.Day, Text: n.Text})
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context, key string) (dto.StatsOutput, error) {
	stats, err := i.svc.Stats(ctx, key)
	if err != nil {
		return dto.StatsOutput{}, err
	}
	out := dto.StatsOutput{Key: stats.Key, Days: stats.Days, NotedDays: stats.NotedDays}
	for _, h := range stats.Habits {
		out.Habits = append(out.Habits, dto.HabitStat{Habit: h.Habit, Checked: h.Checked, Days: h.Days, Rate: h.Rate()})
	}
	return out, nil
}
