package in

import (
	"context"

	"daybook/internal/modules/habit/dto"
	habitin "daybook/internal/modules/habit/port/in"
)

type CLIHandler struct {
	usecase habitin.Usecase
}

func NewCLIHandler(usecase habitin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Bootstrap(ctx context.Context) error {
	return h.usecase.Bootstrap(ctx)
}

func (h CLIHandler) Current(ctx context.Context) (dto.BoardOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Toggle(ctx context.Context, habit string, day int) (dto.MarkOutput, error) {
	return h.usecase.Toggle(ctx, dto.ToggleMarkInput{Habit: habit, Day: day})
}

func (h CLIHandler) Set(ctx context.Context, habit string, day int, checked bool) (dto.MarkOutput, error) {
	return h.usecase.Set(ctx, dto.SetMarkInput{Habit: habit, Day: day, Checked: checked})
}

// Show loads key, or the current period when key is empty.
func (h CLIHandler) Show(ctx context.Context, key string) (dto.BoardOutput, error) {
	if key == "" {
		return h.usecase.Current(ctx)
	}
	return h.usecase.Period(ctx, key)
}

func (h CLIHandler) Periods(ctx context.Context) ([]string, error) {
	return h.usecase.Periods(ctx)
}

func (h CLIHandler) Names(ctx context.Context) []string {
	return h.usecase.Names(ctx)
}
