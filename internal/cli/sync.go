package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirsync/pkg/config"
	"github.com/sdejongh/dirsync/pkg/history"
	"github.com/sdejongh/dirsync/pkg/logging"
	"github.com/sdejongh/dirsync/pkg/models"
	"github.com/sdejongh/dirsync/pkg/output"
	"github.com/sdejongh/dirsync/pkg/storage"
	"github.com/sdejongh/dirsync/pkg/sync"
)

// NewSyncCommand creates the sync command
func NewSyncCommand() *cobra.Command {
	return newModeCommand(models.ModeSync, "sync <source> <target>",
		"Synchronize content between source and target",
		`Copy entries missing from the target, update files whose source copy is
newer and, with --purge, delete entries that no longer exist in the source.`)
}

// NewUpdateCommand creates the update command
func NewUpdateCommand() *cobra.Command {
	return newModeCommand(models.ModeUpdate, "update <source> <target>",
		"Update existing content between source and target",
		`Replace files present on both sides when one copy is newer. Nothing is
created or deleted.`)
}

// NewRunCommand creates the run command, which takes its mode from the
// action key of the option files
func NewRunCommand() *cobra.Command {
	return newModeCommand("", "run <source> <target>",
		"Run the action configured in the option files",
		`Run the action named by the "action" key of $HOME/.dirsync or
<source>/.dirsync (sync when neither sets it).`)
}

func newModeCommand(mode models.Mode, use, short, long string) *cobra.Command {
	var flags SyncFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  requireTwoDirs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, args, &flags, mode)
		},
	}

	addSyncFlags(cmd, &flags)
	return cmd
}

func runMode(cmd *cobra.Command, args []string, f *SyncFlags, mode models.Mode) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := newRunner(cmd, args, f, mode)
	if err != nil {
		return err
	}
	defer r.Close()

	report, err := r.runOnce(ctx)
	if err != nil {
		return configError(err)
	}

	if report.Status != models.StatusSuccess {
		return &ExitError{Code: report.Status.ExitCode()}
	}
	return nil
}

// runner wires one configured engine with its logger and history store
type runner struct {
	cfg     *config.Config
	opts    models.Options
	engine  *sync.Engine
	logger  logging.Logger
	history *history.Store
	closers []io.Closer
}

func newRunner(cmd *cobra.Command, args []string, f *SyncFlags, mode models.Mode) (*runner, error) {
	cfg, err := prepareConfig(cmd, args[0], f)
	if err != nil {
		return nil, configError(err)
	}

	if mode == "" {
		mode, err = cfg.Mode()
		if err != nil {
			return nil, configError(err)
		}
	}

	r := &runner{cfg: cfg, opts: cfg.ToOptions()}

	r.logger, err = createLogger(cmd.OutOrStdout(), cfg)
	if err != nil {
		return nil, configError(fmt.Errorf("failed to create logger: %w", err))
	}
	r.closers = append(r.closers, r.logger)

	formatter, err := output.New(cfg.Output.Format, cmd.OutOrStdout())
	if err != nil {
		r.Close()
		return nil, configError(err)
	}

	// Create storage backends
	source, err := storage.NewLocal(args[0])
	if err != nil {
		r.Close()
		return nil, configError(fmt.Errorf("failed to create source backend: %w", err))
	}
	target, err := storage.NewLocal(args[1])
	if err != nil {
		r.Close()
		return nil, configError(fmt.Errorf("failed to create target backend: %w", err))
	}
	r.closers = append(r.closers, source, target)

	r.engine, err = sync.NewEngine(source, target, mode, r.opts, formatter, r.logger)
	if err != nil {
		r.Close()
		return nil, configError(err)
	}

	if cfg.History.Enabled {
		r.history, err = openHistory(cfg)
		if err != nil {
			r.Close()
			return nil, configError(err)
		}
		r.closers = append(r.closers, r.history)
	}

	return r, nil
}

// runOnce runs the engine and handles the optional report outputs. Only
// configuration errors are returned; per-entry failures live in the report.
func (r *runner) runOnce(ctx context.Context) (*models.Report, error) {
	report, err := r.engine.Run(ctx)
	if err != nil {
		return nil, err
	}

	if r.cfg.Output.DiffReport != "" {
		if err := output.WriteDifferencesReport(report, r.cfg.Output.DiffReport, r.cfg.Output.DiffFormat); err != nil {
			r.logger.Error(ctx, "failed to write differences report", err, nil)
		}
	}

	if r.history != nil {
		if err := r.history.Record(report); err != nil {
			r.logger.Error(ctx, "failed to record run history", err, nil)
		}
	}

	return report, nil
}

// Close releases the runner resources in reverse order of acquisition
func (r *runner) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i].Close()
	}
	r.closers = nil
}

// createLogger builds the console logger and, when a log file is
// configured, a file logger alongside it
func createLogger(w io.Writer, cfg *config.Config) (logging.Logger, error) {
	var console logging.Logger
	switch {
	case cfg.Output.Format == "json":
		// Keep stdout parseable
		console = logging.NewNullLogger()
	case cfg.Verbose:
		console = logging.NewConsoleLogger(w, logging.DebugLevel)
	default:
		console = logging.NewConsoleLogger(w, logging.InfoLevel)
	}

	if cfg.Logging.File == "" {
		return console, nil
	}

	file, err := logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.Logging.File,
		Format:     logging.Format(cfg.Logging.Format),
		Level:      logging.ParseLevel(cfg.Logging.Level),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
	if err != nil {
		return nil, err
	}

	return logging.Multi{console, file}, nil
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = config.DefaultHistoryPath()
		if err != nil {
			return nil, err
		}
	}
	return history.Open(path)
}
