package in

import (
	"context"

	"daybook/internal/modules/report/dto"
)

type Usecase interface {
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
