package out

import (
	"context"

	"daybook/internal/modules/report/domain"
)

// Exporter persists a month report under dir and returns the written path.
type Exporter interface {
	Export(ctx context.Context, dir string, report domain.MonthReport) (string, error)
}
