package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	AppName        = "daybook"
	EnvPrefix      = "DAYBOOK"
	ConfigFileName = "daybook"
	MaxHabits      = 6
)

// DefaultHabitNames are used when no habits are configured.
var DefaultHabitNames = []string{"Hábito 1", "Hábito 2", "Hábito 3", "Hábito 4", "Hábito 5", "Hábito 6"}

type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Period  PeriodConfig  `mapstructure:"period"`
	Journal JournalConfig `mapstructure:"journal"`
	Habits  HabitsConfig  `mapstructure:"habits"`
	Log     LogConfig     `mapstructure:"log"`
	Export  ExportConfig  `mapstructure:"export"`
}

type PeriodConfig struct {
	Separator string `mapstructure:"separator"`
}

type JournalConfig struct {
	File          string `mapstructure:"file"`
	MaxTextLength int    `mapstructure:"max_text_length"`
}

type HabitsConfig struct {
	File  string   `mapstructure:"file"`
	Names []string `mapstructure:"names"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Options carry command-line overrides. Empty fields fall back to env, the
// config file and defaults, in that order.
type Options struct {
	DataDir    string
	ConfigFile string
	EnvFile    string
}

func Load(opts Options) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if opts.DataDir != "" {
		v.Set("data_dir", opts.DataDir)
	}

	v.SetConfigType("yaml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(v.GetString("data_dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}
	// The command-line data dir wins over one named inside the config file.
	if opts.DataDir != "" {
		v.Set("data_dir", opts.DataDir)
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Habits.Names = trimNames(cfg.Habits.Names)
	if len(cfg.Habits.Names) == 0 {
		cfg.Habits.Names = append([]string(nil), DefaultHabitNames...)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DataDir(AppName))
	v.SetDefault("period.separator", "-")
	v.SetDefault("journal.file", "notes.json")
	v.SetDefault("journal.max_text_length", 62)
	v.SetDefault("habits.file", "habits.json")
	v.SetDefault("habits.names", DefaultHabitNames)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "daybook.log")
	v.SetDefault("export.dir", "exports")
}

// Validate reports every problem at once rather than stopping at the first.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data_dir is required")
	}
	if c.Period.Separator == "" {
		problems = append(problems, "period.separator must not be empty")
	} else if strings.ContainsAny(c.Period.Separator, "0123456789") {
		problems = append(problems, fmt.Sprintf("period.separator %q must not contain digits", c.Period.Separator))
	}
	if c.Journal.MaxTextLength <= 0 {
		problems = append(problems, fmt.Sprintf("journal.max_text_length must be positive, got %d", c.Journal.MaxTextLength))
	}
	if strings.TrimSpace(c.Journal.File) == "" || strings.TrimSpace(c.Habits.File) == "" {
		problems = append(problems, "journal.file and habits.file are required")
	} else if c.NotesPath() == c.HabitsPath() {
		problems = append(problems, "journal.file and habits.file must differ")
	}
	if n := len(c.Habits.Names); n == 0 || n > MaxHabits {
		problems = append(problems, fmt.Sprintf("habits.names must list 1 to %d habits, got %d", MaxHabits, n))
	}
	seen := map[string]struct{}{}
	for _, name := range c.Habits.Names {
		if _, dup := seen[name]; dup {
			problems = append(problems, fmt.Sprintf("duplicate habit name %q", name))
		}
		seen[name] = struct{}{}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is not a valid level", c.Log.Level))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) NotesPath() string  { return c.resolve(c.Journal.File) }
func (c Config) HabitsPath() string { return c.resolve(c.Habits.File) }
func (c Config) LogPath() string    { return c.resolve(c.Log.File) }
func (c Config) ExportDir() string  { return c.resolve(c.Export.Dir) }

// DBPath is the derived sqlite index; it can always be rebuilt from the JSON
// documents.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, ".daybook", "index.db")
}

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// DataDir follows the XDG base directory spec.
func DataDir(app string) string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, app)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", app)
	}
	return filepath.Join(home, ".local", "share", app)
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
