package in

import (
	"context"

	"daybook/internal/modules/insight/dto"
)

type Usecase interface {
	Reindex(ctx context.Context) (dto.ReindexOutput, error)
	Search(ctx context.Context, input dto.SearchInput) ([]dto.NoteHit, error)
	Stats(ctx context.Context, key string) (dto.StatsOutput, error)
}
