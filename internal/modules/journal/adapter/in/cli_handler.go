package in

import (
	"context"

	"daybook/internal/modules/journal/dto"
	journalin "daybook/internal/modules/journal/port/in"
)

type CLIHandler struct {
	usecase journalin.Usecase
}

func NewCLIHandler(usecase journalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Bootstrap(ctx context.Context) error {
	return h.usecase.Bootstrap(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (dto.PeriodOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) SetText(ctx context.Context, day int, text string) (dto.SetTextOutput, error) {
	return h.usecase.SetText(ctx, dto.SetTextInput{Day: day, Text: text})
}

// SetPeriodText is SetText for an editor bound to one period. It fails with
// ErrPeriodChanged once the month has rolled past period.
func (h CLIHandler) SetPeriodText(ctx context.Context, period string, day int, text string) (dto.SetTextOutput, error) {
	return h.usecase.SetText(ctx, dto.SetTextInput{Period: period, Day: day, Text: text})
}

// Show loads key, or the current period when key is empty.
func (h CLIHandler) Show(ctx context.Context, key string) (dto.PeriodOutput, error) {
	if key == "" {
		return h.usecase.Current(ctx)
	}
	return h.usecase.Period(ctx, key)
}

func (h CLIHandler) Periods(ctx context.Context) ([]string, error) {
	return h.usecase.Periods(ctx)
}
