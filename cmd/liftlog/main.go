// Package main provides the CLI entrypoint for liftlog.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/term"

	"github.com/verte-zerg/liftlog/internal/config"
	"github.com/verte-zerg/liftlog/internal/editor"
	"github.com/verte-zerg/liftlog/internal/logging"
	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/stats"
	"github.com/verte-zerg/liftlog/internal/store"
	"github.com/verte-zerg/liftlog/internal/tui"
)

const (
	defaultWeekStart = "sunday"
	defaultLogLevel  = "warn"
)

const dateLayout = "2006-01-02"

var (
	dbPath        string
	configPath    string
	logLevel      string
	logFile       string
	logJSON       bool
	weeksBack     int
	weekStartFlag string

	logDate string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "liftlog",
		Short:         "Workout logger with weekly stats",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runLoggerCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "diagnostic log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write diagnostics to a rotated log file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write diagnostics as JSON")
	rootCmd.PersistentFlags().IntVar(&weeksBack, "weeks-back", stats.DefaultWeeksBack, "number of prior weeks to average")
	rootCmd.PersistentFlags().StringVar(&weekStartFlag, "week-start", defaultWeekStart, "first day of the week (sunday or monday)")
	rootCmd.Flags().StringVar(&logDate, "date", "", "day to log (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newExerciseCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newSetCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

// app bundles everything a command needs. close must be called when done.
type app struct {
	st   *store.Store
	repo *store.Repository
	ed   *editor.Editor
	cfg  model.Config
	log  *logrus.Logger
	// logFile is set when log output is a rotated file owned by the app.
	logFile bool
}

func openApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Storage.DB)
	applyIntConfig(cmd, "weeks-back", &weeksBack, fileCfg.Stats.WeeksBack)
	applyStringConfig(cmd, "week-start", &weekStartFlag, fileCfg.Stats.WeekStart)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	applyBoolConfig(cmd, "log-json", &logJSON, fileCfg.Log.JSON)

	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.Setup(logging.SetupParams{
		Output:     cmd.ErrOrStderr(),
		FileName:   logFile,
		Level:      logLevel,
		FormatJSON: logJSON,
	})

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.WithField("db", dbPath).Debug("store opened")

	repo := store.NewRepository(st, store.WithLocation(time.Local), store.WithLogger(logger))
	ed := editor.New(repo, editor.WithLocation(time.Local), editor.WithLogger(logger))
	return &app{st: st, repo: repo, ed: ed, cfg: cfg, log: logger, logFile: logFile != ""}, nil
}

func (a *app) close() {
	err := a.st.Close()
	if closer, ok := a.log.Out.(io.Closer); ok && a.logFile {
		err = multierr.Append(err, closer.Close())
	}
	if err != nil {
		logErrf("failed to close: %v\n", err)
	}
}

// buildConfig validates the merged flag and file values.
func buildConfig() (model.Config, error) {
	var errs error
	if weeksBack <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("--weeks-back must be > 0"))
	}
	weekStart, err := config.ParseWeekStart(weekStartFlag)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("--week-start: %w", err))
	}
	if !logging.ValidLevel(logLevel) {
		errs = multierr.Append(errs, fmt.Errorf("--log-level must be one of trace, debug, info, warn, error"))
	}
	if errs != nil {
		return model.Config{}, errs
	}
	return model.Config{WeeksBack: weeksBack, WeekStart: weekStart}, nil
}

func runLoggerCmd(cmd *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("the interactive logger needs a terminal; use `liftlog log` instead")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	date, err := parseDate(logDate)
	if err != nil {
		return err
	}
	session, resumed, err := a.ed.OpenDay(cmd.Context(), date)
	if err != nil {
		return err
	}
	m := tui.NewModel(a.ed, a.repo, a.cfg, session, resumed)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editorCmd := strings.TrimSpace(os.Getenv("EDITOR"))
	if editorCmd == "" {
		editorCmd = "vi"
	}
	parts := strings.Fields(editorCmd)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# liftlog configuration
# Uncomment a value to enable it. CLI flags override config values.

[stats]
# weeks-back = %d         # Prior weeks averaged for comparisons
# week-start = %q   # First day of the week: sunday or monday

[storage]
# db = %q

[log]
# level = %q           # trace, debug, info, warn, error
# file = ""               # Rotated log file; empty logs to stderr
# json = false
`,
		stats.DefaultWeeksBack,
		defaultWeekStart,
		config.DefaultDBPath(),
		defaultLogLevel,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// parseDate reads a YYYY-MM-DD day in local time. Empty means now.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now(), nil
	}
	parsed, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date value %q (expected YYYY-MM-DD)", value)
	}
	return parsed, nil
}

// confirm asks a y/N question on the command's input. skip answers yes.
func confirm(cmd *cobra.Command, skip bool, format string, args ...any) (bool, error) {
	if skip {
		return true, nil
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format+" [y/N]: ", args...); err != nil {
		return false, fmt.Errorf("failed to write output: %w", err)
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func printf(cmd *cobra.Command, format string, args ...any) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
