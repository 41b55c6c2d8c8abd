package in

import (
	"context"

	"daybook/internal/modules/journal/dto"
)

type Usecase interface {
	Bootstrap(ctx context.Context) error
	Current(ctx context.Context) (dto.PeriodOutput, error)
	SetText(ctx context.Context, input dto.SetTextInput) (dto.SetTextOutput, error)
	Period(ctx context.Context, key string) (dto.PeriodOutput, error)
	Periods(ctx context.Context) ([]string, error)
}
