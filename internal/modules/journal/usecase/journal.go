package usecase

import (
	"context"

	"daybook/internal/modules/journal/domain"
	"daybook/internal/modules/journal/dto"
	journalin "daybook/internal/modules/journal/port/in"
	"daybook/internal/modules/journal/service"
)

type Interactor struct {
	svc *service.JournalService
}

func NewInteractor(svc *service.JournalService) journalin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Bootstrap(ctx context.Context) error {
	return i.svc.Bootstrap(ctx)
}

func (i *Interactor) Current(ctx context.Context) (dto.PeriodOutput, error) {
	key, days, err := i.svc.Current(ctx)
	if err != nil {
		return dto.PeriodOutput{}, err
	}
	return i.toPeriod(key, days, i.svc.Today()), nil
}

func (i *Interactor) SetText(ctx context.Context, input dto.SetTextInput) (dto.SetTextOutput, error) {
	key, record, err := i.svc.SetText(ctx, input.Period, input.Day, input.Text)
	if record.Number == 0 {
		return dto.SetTextOutput{}, err
	}
	// A failed write still reports the canonical text held in memory.
	return dto.SetTextOutput{
		Key:     key,
		Day:     record.Number,
		Text:    record.Text,
		Changed: record.Text != input.Text,
	}, err
}

func (i *Interactor) Period(ctx context.Context, key string) (dto.PeriodOutput, error) {
	canonicalKey, days, err := i.svc.Period(ctx, key)
	if err != nil {
		return dto.PeriodOutput{}, err
	}
	today := 0
	if canonicalKey == i.svc.CurrentKey() {
		today = i.svc.Today()
	}
	return i.toPeriod(canonicalKey, days, today), nil
}

func (i *Interactor) Periods(ctx context.Context) ([]string, error) {
	return i.svc.Periods(ctx)
}

func (i *Interactor) toPeriod(key string, days []domain.DayRecord, today int) dto.PeriodOutput {
	out := dto.PeriodOutput{Key: key, Today: today, MaxTextLength: i.svc.MaxTextLength(), Days: make([]dto.DayOutput, 0, len(days))}
	for _, d := range days {
		out.Days = append(out.Days, dto.DayOutput{Day: d.Number, Text: d.Text})
	}
	return out
}
