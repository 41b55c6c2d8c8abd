package bootstrap

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	habitinadapter "daybook/internal/modules/habit/adapter/in"
	habitoutadapter "daybook/internal/modules/habit/adapter/out"
	habitservice "daybook/internal/modules/habit/service"
	habitusecase "daybook/internal/modules/habit/usecase"
	insightinadapter "daybook/internal/modules/insight/adapter/in"
	insightoutadapter "daybook/internal/modules/insight/adapter/out"
	insightservice "daybook/internal/modules/insight/service"
	insightusecase "daybook/internal/modules/insight/usecase"
	journalinadapter "daybook/internal/modules/journal/adapter/in"
	journaloutadapter "daybook/internal/modules/journal/adapter/out"
	journalservice "daybook/internal/modules/journal/service"
	journalusecase "daybook/internal/modules/journal/usecase"
	reportinadapter "daybook/internal/modules/report/adapter/in"
	reportoutadapter "daybook/internal/modules/report/adapter/out"
	reportservice "daybook/internal/modules/report/service"
	reportusecase "daybook/internal/modules/report/usecase"
	"daybook/internal/platform/clock"
	"daybook/internal/platform/config"
	"daybook/internal/platform/logger"
	"daybook/internal/platform/period"
	uiapp "daybook/internal/ui/app"
)

type App struct {
	JournalCLI journalinadapter.CLIHandler
	HabitCLI   habitinadapter.CLIHandler
	InsightCLI insightinadapter.CLIHandler
	ReportCLI  reportinadapter.CLIHandler

	Config config.Config
	Log    *logger.Logger

	index *insightoutadapter.SQLiteIndex
}

func New(cfg config.Config, log *logger.Logger) (*App, error) {
	return NewWithClock(cfg, log, clock.SystemClock{})
}

// NewWithClock wires the application against clk; tests pin the date with
// clock.Fixed.
func NewWithClock(cfg config.Config, log *logger.Logger, clk clock.Clock) (*App, error) {
	log = logger.OrNop(log)
	resolver := period.NewResolver(clk, cfg.Period.Separator)

	journalUC := journalusecase.NewInteractor(journalservice.NewJournalService(
		resolver,
		journaloutadapter.NewFileNoteStore(cfg.NotesPath(), log),
		cfg.Journal.MaxTextLength,
		log,
	))

	habitSvc, err := habitservice.NewHabitService(
		resolver,
		habitoutadapter.NewFileMarkStore(cfg.HabitsPath(), log),
		cfg.Habits.Names,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("new habit service: %w", err)
	}
	habitUC := habitusecase.NewInteractor(habitSvc)

	index, err := insightoutadapter.NewSQLiteIndex(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("new insight index: %w", err)
	}
	insightUC := insightusecase.NewInteractor(insightservice.NewInsightService(
		resolver,
		index,
		index,
		insightoutadapter.NewJournalSourceAdapter(journalUC),
		insightoutadapter.NewHabitSourceAdapter(habitUC),
		log,
	))

	reportUC := reportusecase.NewInteractor(
		reportservice.NewReportService(clk, reportoutadapter.NewVaultExporter(), cfg.ExportDir(), log),
		journalUC,
		habitUC,
	)

	return &App{
		JournalCLI: journalinadapter.NewCLIHandler(journalUC),
		HabitCLI:   habitinadapter.NewCLIHandler(habitUC),
		InsightCLI: insightinadapter.NewCLIHandler(insightUC),
		ReportCLI:  reportinadapter.NewCLIHandler(reportUC),
		Config:     cfg,
		Log:        log,
		index:      index,
	}, nil
}

// Bootstrap creates both documents when they are missing.
func (a *App) Bootstrap(ctx context.Context) error {
	if err := a.JournalCLI.Bootstrap(ctx); err != nil {
		return err
	}
	return a.HabitCLI.Bootstrap(ctx)
}

func (a *App) Close() error {
	var errs []error
	if a.index != nil {
		errs = append(errs, a.index.Close())
	}
	// Syncing stderr fails on some platforms; only file sinks matter here.
	_ = a.Log.Close()
	return errors.Join(errs...)
}

func RunTUI(ctx context.Context, app *App) error {
	if err := app.Bootstrap(ctx); err != nil {
		return err
	}
	model := uiapp.NewModel(app.JournalCLI, app.HabitCLI, app.InsightCLI, app.ReportCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
