// Package cmd provides the CLI commands for spese.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"spese/internal/backend"
	"spese/internal/cli"
	"spese/internal/config"
	"spese/internal/core"
	applog "spese/internal/log"
	"spese/internal/services"
)

// app carries flag values and the wired backend for one command run.
type app struct {
	dbPath   string
	backend  string
	logLevel string

	root    *cobra.Command
	logger  *applog.Logger
	result  *backend.Result
	service *services.ExpenseService
}

// newApp builds the full command tree around a fresh app.
func newApp() *app {
	a := &app{}

	a.root = &cobra.Command{
		Use:   "spese",
		Short: "Track personal expenses in a local SQLite file",
		Long: `spese records expenses, deletes them by id, category, date or amount,
and summarizes them by month and by category.

Example:
  spese add --amount 12.50 --category Food --date 2024-03-01
  spese month --year 2024 --month 3
  spese delete --category Food`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	a.root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database file (overrides SQLITE_DB_PATH)")
	a.root.PersistentFlags().StringVar(&a.backend, "backend", "", "data backend: sqlite or memory (overrides DATA_BACKEND)")
	a.root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	a.root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newMonthCmd(a),
		newCategoriesCmd(a),
		newDeleteCmd(a),
	)
	return a
}

// run executes the command tree and releases the backend on every path.
// Cobra skips post-run hooks when a command fails, so release happens here.
func (a *app) run() error {
	err := a.root.Execute()
	if releaseErr := a.release(); releaseErr != nil {
		err = errors.Join(err, releaseErr)
	}
	return err
}

// Execute runs the CLI and prints a user-facing message on failure.
func Execute() error {
	a := newApp()
	if err := a.run(); err != nil {
		fmt.Fprintln(a.root.ErrOrStderr(), cli.RenderError(userMessage(err)))
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.SQLiteDBPath = a.dbPath
	}
	if a.backend != "" {
		cfg.DataBackend = a.backend
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.logger, err = cli.SetupLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.result, err = cli.InitBackend(cmd.Context(), a.logger, cfg)
	if err != nil {
		return err
	}
	a.service = a.result.Service

	a.logger.DebugContext(cmd.Context(), "Backend ready",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldBackend, cfg.DataBackend)
	return nil
}

func (a *app) release() error {
	if a.result == nil || a.result.Cleanup == nil {
		return nil
	}
	cleanup := a.result.Cleanup
	a.result = nil

	if err := cleanup(); err != nil {
		a.logger.Error("Cleanup failed",
			applog.FieldOperation, applog.OpShutdown,
			applog.FieldError, err)
		return err
	}
	return nil
}

// userMessage strips wrapping from validation errors so the user sees
// "amount must be positive" rather than the call chain.
func userMessage(err error) string {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	return err.Error()
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func outln(cmd *cobra.Command, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), args...)
}
