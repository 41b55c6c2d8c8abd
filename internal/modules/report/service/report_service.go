package service

import (
	"context"
	"fmt"
	"strings"

	"daybook/internal/modules/report/domain"
	reportout "daybook/internal/modules/report/port/out"
	"daybook/internal/platform/clock"
	apperrors "daybook/internal/platform/errors"
	"daybook/internal/platform/logger"
	"daybook/internal/platform/slug"
)

type ReportService struct {
	clock    clock.Clock
	exporter reportout.Exporter
	dir      string
	log      *logger.Logger
}

func NewReportService(clk clock.Clock, exporter reportout.Exporter, defaultDir string, log *logger.Logger) *ReportService {
	return &ReportService{clock: clk, exporter: exporter, dir: defaultDir, log: logger.OrNop(log).WithComponent("report")}
}

// Export stamps and writes report. An empty dir uses the configured export
// directory.
func (s *ReportService) Export(ctx context.Context, dir string, report domain.MonthReport) (string, domain.MonthReport, error) {
	if strings.TrimSpace(dir) == "" {
		dir = s.dir
	}
	if dir == "" {
		return "", domain.MonthReport{}, fmt.Errorf("%w: export directory is required", apperrors.ErrInvalidInput)
	}
	report.GeneratedAt = s.clock.Now()
	report.Slug = slug.Make(report.Key)
	path, err := s.exporter.Export(ctx, dir, report)
	if err != nil {
		s.log.Errorw("export failed", "period", report.Key, "dir", dir, "error", err)
		return "", domain.MonthReport{}, err
	}
	s.log.Infow("month exported", "period", report.Key, "path", path)
	return path, report, nil
}
