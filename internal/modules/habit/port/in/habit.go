package in

import (
	"context"

	"daybook/internal/modules/habit/dto"
)

type Usecase interface {
	Bootstrap(ctx context.Context) error
	Current(ctx context.Context) (dto.BoardOutput, error)
	Set(ctx context.Context, input dto.SetMarkInput) (dto.MarkOutput, error)
	Toggle(ctx context.Context, input dto.ToggleMarkInput) (dto.MarkOutput, error)
	Period(ctx context.Context, key string) (dto.BoardOutput, error)
	Periods(ctx context.Context) ([]string, error)
	Names(ctx context.Context) []string
}
