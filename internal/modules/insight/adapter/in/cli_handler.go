package in

import (
	"context"

	"daybook/internal/modules/insight/dto"
	insightin "daybook/internal/modules/insight/port/in"
)

type CLIHandler struct {
	usecase insightin.Usecase
}

func NewCLIHandler(usecase insightin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Reindex(ctx context.Context) (dto.ReindexOutput, error) {
	return h.usecase.Reindex(ctx)
}

func (h CLIHandler) Search(ctx context.Context, query string, limit int) ([]dto.NoteHit, error) {
	return h.usecase.Search(ctx, dto.SearchInput{Query: query, Limit: limit})
}

func (h CLIHandler) Stats(ctx context.Context, key string) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx, key)
}
