package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"daybook/internal/modules/report/domain"
	reportout "daybook/internal/modules/report/port/out"
	"daybook/internal/platform/markdown"
)

var monthBlock = markdown.NewBlock("daybook", "month")

// VaultExporter writes one markdown file per period. Regenerating a month
// replaces only the managed block and the owned frontmatter keys.
type VaultExporter struct{}

func NewVaultExporter() reportout.Exporter {
	return VaultExporter{}
}

func (VaultExporter) Export(_ context.Context, dir string, report domain.MonthReport) (string, error) {
	if err := report.Validate(); err != nil {
		return "", err
	}
	path := filepath.Join(dir, report.Slug+".md")

	existingMeta := map[string]any{}
	body := "# " + report.Key + "\n"
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		meta, existingBody, splitErr := markdown.Split(string(raw))
		if splitErr != nil {
			return "", fmt.Errorf("parse existing export %s: %w", filepath.Base(path), splitErr)
		}
		existingMeta, body = meta, existingBody
	case errors.Is(err, os.ErrNotExist):
	default:
		return "", fmt.Errorf("read existing export: %w", err)
	}

	fields := markdown.Merge([]markdown.Field{
		{Key: "period", Value: report.Key},
		{Key: "days", Value: report.Days},
		{Key: "habits", Value: report.Habits},
		{Key: "noted_days", Value: report.NotedDays()},
		{Key: "generated_at", Value: report.GeneratedAt.UTC().Format(time.RFC3339)},
	}, existingMeta)
	rendered, err := markdown.Render(fields, monthBlock.Replace(body, report.Body()))
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
