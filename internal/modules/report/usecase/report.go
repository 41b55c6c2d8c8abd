package usecase

import (
	"context"
	"fmt"

	habitdto "daybook/internal/modules/habit/dto"
	habitin "daybook/internal/modules/habit/port/in"
	journaldto "daybook/internal/modules/journal/dto"
	journalin "daybook/internal/modules/journal/port/in"
	"daybook/internal/modules/report/domain"
	"daybook/internal/modules/report/dto"
	reportin "daybook/internal/modules/report/port/in"
	"daybook/internal/modules/report/service"
)

type Interactor struct {
	svc     *service.ReportService
	journal journalin.Usecase
	habits  habitin.Usecase
}

func NewInteractor(svc *service.ReportService, journal journalin.Usecase, habits habitin.Usecase) reportin.Usecase {
	return &Interactor{svc: svc, journal: journal, habits: habits}
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	notes, err := i.notes(ctx, input.Period)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	board, err := i.board(ctx, notes.Key)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	if board.Days != len(notes.Days) {
		return dto.ExportOutput{}, fmt.Errorf("period %s: %d note days but %d habit days", notes.Key, len(notes.Days), board.Days)
	}

	report := domain.MonthReport{Key: notes.Key, Days: len(notes.Days), Habits: board.Habits}
	for idx, d := range notes.Days {
		line := domain.DayLine{Day: d.Day, Text: d.Text}
		for h, habit := range board.Habits {
			if board.Checked[h][idx] {
				line.Habits = append(line.Habits, habit)
			}
		}
		report.Lines = append(report.Lines, line)
	}

	path, written, err := i.svc.Export(ctx, input.Dir, report)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Key: written.Key, Path: path, Days: written.Days, NotedDays: written.NotedDays()}, nil
}

func (i *Interactor) notes(ctx context.Context, key string) (journaldto.PeriodOutput, error) {
	if key == "" {
		return i.journal.Current(ctx)
	}
	return i.journal.Period(ctx, key)
}

func (i *Interactor) board(ctx context.Context, key string) (habitdto.BoardOutput, error) {
	return i.habits.Period(ctx, key)
}
