package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timepick-cli/internal/config"
	"timepick-cli/internal/format"
	"timepick-cli/internal/logging"
	"timepick-cli/internal/picker"
	"timepick-cli/internal/session"
	"timepick-cli/internal/store"
	"timepick-cli/internal/tui"
)

type App struct {
	Dir        string
	ConfigPath string
	Format     string
	PrettyJSON bool
	LogLevel   string
	LogFile    string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "timepick",
		Short:        "Constrained 12-hour time picker (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive form
  timepick

  # Scriptable commands
  timepick fields list
  timepick check arrive-time "4:00 PM"
  timepick select depart-time "3:30 PM"

  # Shortcut for: timepick select depart-time "3:30 PM"
  timepick depart-time="3:30 PM"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s (expected json or edn)", app.Format))
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Store dir (default: TIMEPICK_DIR, the config's dir, then ~/.timepick)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TIMEPICK_CONFIG", ""), "Form definition file (default: ./timepick.yaml or ~/.timepick/timepick.yaml)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TIMEPICK_FORMAT", "json"), "Output format (json|edn)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Write logs to this file instead of stderr")

	cmd.AddCommand(newFieldsCmd(app))
	cmd.AddCommand(newCheckCmd(app))
	cmd.AddCommand(newColumnsCmd(app))
	cmd.AddCommand(newSelectCmd(app))
	cmd.AddCommand(newDefaultCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	// The TUI owns the terminal; only log when a file is configured.
	sess, cfg, err := openSession(cmd, app, session.Options{}, true)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer sess.Close()
	return tui.Run(resolveDir(app, cfg), sess)
}

func loadConfig(app *App) (*config.Config, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	if app.LogLevel != "" {
		cfg.LogLevel = app.LogLevel
	}
	if app.LogFile != "" {
		cfg.LogFile = app.LogFile
	}
	return cfg, nil
}

// resolveDir applies --dir > TIMEPICK_DIR / config dir > ~/.timepick.
func resolveDir(app *App, cfg *config.Config) string {
	if strings.TrimSpace(app.Dir) != "" {
		return app.Dir
	}
	if cfg != nil && strings.TrimSpace(cfg.Dir) != "" {
		return cfg.Dir
	}
	if d, err := store.DefaultDir(); err == nil {
		return d
	}
	return ".timepick"
}

func newLogger(cfg *config.Config, quietWithoutFile bool) (*zap.Logger, error) {
	if quietWithoutFile && strings.TrimSpace(cfg.LogFile) == "" {
		return logging.Nop(), nil
	}
	return logging.New(cfg.LogLevel, cfg.LogFile)
}

// openSession loads the config, builds the logger and opens the form session. The
// caller closes the session, which also flushes the logger.
func openSession(cmd *cobra.Command, app *App, opts session.Options, quiet bool) (*session.Session, *config.Config, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg, quiet)
	if err != nil {
		return nil, nil, err
	}
	opts.Logger = log
	sess, err := session.Open(cmd.Context(), cfg, resolveDir(app, cfg), opts)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return sess, cfg, nil
}

func lookupField(sess *session.Session, id string) (session.Field, error) {
	f, err := sess.Field(id)
	if errors.Is(err, session.ErrUnknownField) {
		return f, errNotFound("field", id)
	}
	return f, err
}

func lookupPicker(sess *session.Session, id string) (*picker.Picker, error) {
	p, err := sess.Picker(id)
	if errors.Is(err, session.ErrUnknownField) {
		return nil, errNotFound("field", id)
	}
	return p, err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), format.Data(v), app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
