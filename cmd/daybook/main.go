package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"daybook/internal/bootstrap"
	"daybook/internal/platform/config"
	"daybook/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOptions struct {
	dataDir    string
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "daybook",
		Short:         "Monthly notes and habit tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding notes.json and habits.json")
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default <data-dir>/daybook.yaml)")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newPeriodCmd(opts))
	root.AddCommand(newNoteCmd(opts))
	root.AddCommand(newHabitCmd(opts))
	root.AddCommand(newReindexCmd(opts))
	root.AddCommand(newSearchCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newExportCmd(opts))
	return root
}

// loadApp builds the application. The TUI owns the terminal, so it logs to
// a file; every other command logs to stderr.
func loadApp(opts *globalOptions, tui bool) (*bootstrap.App, error) {
	cfg, err := config.Load(config.Options{DataDir: opts.dataDir, ConfigFile: opts.configFile})
	if err != nil {
		return nil, err
	}
	output := "stderr"
	if tui {
		output = cfg.LogPath()
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Output: output})
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(cfg, log)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	return app, nil
}

// withApp runs fn against a freshly wired app and closes it afterwards.
func withApp(opts *globalOptions, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(opts, false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func runTUI(ctx context.Context, opts *globalOptions) error {
	app, err := loadApp(opts, true)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return bootstrap.RunTUI(ctx, app)
}

func newTUICmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the daybook terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
}

func newPeriodCmd(opts *globalOptions) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Print the current period key and its day count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.Show(cmd.Context(), key)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d days\n", out.Key, len(out.Days))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "period key, e.g. October-2025")
	return cmd
}

func newNoteCmd(opts *globalOptions) *cobra.Command {
	note := &cobra.Command{Use: "note", Short: "Read and write daily notes"}

	note.AddCommand(&cobra.Command{
		Use:   "set <day> <text...>",
		Short: "Set the note for a day of the current period",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.SetText(cmd.Context(), day, text)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s day %d: %s\n", out.Key, out.Day, out.Text)
				return nil
			})
		},
	})

	var key string
	var all bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the notes of a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.JournalCLI.Show(cmd.Context(), key)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(w, out.Key)
				for _, d := range out.Days {
					if d.Text == "" && !all {
						continue
					}
					marker := " "
					if d.Day == out.Today {
						marker = "*"
					}
					_, _ = fmt.Fprintf(w, "%2d%s %s\n", d.Day, marker, d.Text)
				}
				return nil
			})
		},
	}
	show.Flags().StringVar(&key, "period", "", "period key (default current)")
	show.Flags().BoolVar(&all, "all", false, "include days without a note")
	note.AddCommand(show)
	return note
}

func newHabitCmd(opts *globalOptions) *cobra.Command {
	habit := &cobra.Command{Use: "habit", Short: "Track daily habits"}

	habit.AddCommand(&cobra.Command{
		Use:   "toggle <habit> <day>",
		Short: "Flip a habit mark in the current period",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[1])
			if err != nil {
				return err
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.HabitCLI.Toggle(cmd.Context(), args[0], day)
				if err != nil {
					return err
				}
				printMark(cmd.OutOrStdout(), out.Key, out.Habit, out.Day, out.Checked)
				return nil
			})
		},
	})

	habit.AddCommand(&cobra.Command{
		Use:   "set <habit> <day> <true|false>",
		Short: "Set a habit mark in the current period",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[1])
			if err != nil {
				return err
			}
			checked, err := strconv.ParseBool(args[2])
			if err != nil {
				return fmt.Errorf("mark must be true or false, got %q", args[2])
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.HabitCLI.Set(cmd.Context(), args[0], day, checked)
				if err != nil {
					return err
				}
				printMark(cmd.OutOrStdout(), out.Key, out.Habit, out.Day, out.Checked)
				return nil
			})
		},
	})

	var key string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the habit grid of a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.HabitCLI.Show(cmd.Context(), key)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s\nday\t%s\n", out.Key, strings.Join(out.Habits, "\t"))
				for d := 0; d < out.Days; d++ {
					cells := make([]string, len(out.Habits))
					for h := range out.Habits {
						cells[h] = "."
						if out.Checked[h][d] {
							cells[h] = "x"
						}
					}
					_, _ = fmt.Fprintf(w, "%d\t%s\n", d+1, strings.Join(cells, "\t"))
				}
				return nil
			})
		},
	}
	show.Flags().StringVar(&key, "period", "", "period key (default current)")
	habit.AddCommand(show)

	habit.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the configured habits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				for i, name := range app.HabitCLI.Names(cmd.Context()) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, name)
				}
				return nil
			})
		},
	})
	return habit
}

func newReindexCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search and stats index from the JSON documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.InsightCLI.Reindex(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d periods: %d notes, %d marks\n", out.Periods, out.Notes, out.Marks)
				return nil
			})
		},
	}
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search notes across all periods",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				hits, err := app.InsightCLI.Search(cmd.Context(), strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), hits)
				}
				if len(hits) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no matches")
					return nil
				}
				for _, h := range hits {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", h.Period, h.Day, h.Text)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of results (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func newStatsCmd(opts *globalOptions) *cobra.Command {
	var key string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize notes and habit completion for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.InsightCLI.Stats(cmd.Context(), key)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s\tnoted %d/%d days\n", out.Key, out.NotedDays, out.Days)
				for _, h := range out.Habits {
					_, _ = fmt.Fprintf(w, "%s\t%d/%d\t%.0f%%\n", h.Habit, h.Checked, h.Days, h.Rate*100)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&key, "period", "", "period key (default current)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print stats as JSON")
	return cmd
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var key, dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a period as a markdown note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.ReportCLI.Export(cmd.Context(), key, dir)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", out.Key, out.Path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&key, "period", "", "period key (default current)")
	cmd.Flags().StringVar(&dir, "out", "", "output directory (default <data-dir>/exports)")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func parseDay(raw string) (int, error) {
	day, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("day must be a number, got %q", raw)
	}
	return day, nil
}

func printMark(w io.Writer, key, habit string, day int, checked bool) {
	state := "unchecked"
	if checked {
		state = "checked"
	}
	_, _ = fmt.Fprintf(w, "%s %s day %d %s\n", key, habit, day, state)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
