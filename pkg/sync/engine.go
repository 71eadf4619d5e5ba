package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/dirsync/internal/platform"
	"github.com/sdejongh/dirsync/pkg/compare"
	"github.com/sdejongh/dirsync/pkg/filter"
	"github.com/sdejongh/dirsync/pkg/logging"
	"github.com/sdejongh/dirsync/pkg/models"
	"github.com/sdejongh/dirsync/pkg/output"
	"github.com/sdejongh/dirsync/pkg/storage"
)

// Engine runs one sync, update or diff between a source and a target tree
type Engine struct {
	source    storage.Backend
	target    storage.Backend
	mode      models.Mode
	opts      models.Options
	filter    *filter.Filter
	formatter output.Formatter
	logger    logging.Logger
}

// NewEngine creates a new engine. Configuration that can be checked without
// touching the filesystem (mode, direction, patterns) is validated here.
func NewEngine(
	source, target storage.Backend,
	mode models.Mode,
	opts models.Options,
	formatter output.Formatter,
	logger logging.Logger,
) (*Engine, error) {
	mode, err := models.ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Direction == "" {
		opts.Direction = models.DirectionSourceToTarget
	}

	f, err := filter.FromOptions(opts)
	if err != nil {
		return nil, err
	}

	if formatter == nil {
		formatter = output.NewHumanFormatter(io.Discard)
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	return &Engine{
		source:    source,
		target:    target,
		mode:      mode,
		opts:      opts,
		filter:    f,
		formatter: formatter,
		logger:    logger,
	}, nil
}

// Run compares the trees, applies the actions of the selected mode and
// returns the report. Only configuration errors are returned; per-entry
// failures are recorded in the report.
func (e *Engine) Run(ctx context.Context) (*models.Report, error) {
	report := &models.Report{
		ID:         uuid.NewString(),
		SourcePath: e.source.Root(),
		TargetPath: e.target.Root(),
		Mode:       e.mode,
		Direction:  e.opts.Direction,
		StartTime:  time.Now(),
	}

	if err := e.prepare(ctx, report); err != nil {
		e.formatter.Error(err)
		return nil, err
	}

	e.announce(ctx)

	comparison, dirs := compare.Trees(ctx, e.source, e.target, e.filter)
	report.Comparison = comparison
	report.Stats.DirsScanned = dirs

	executor := NewExecutor(e.source, e.target, &e.opts, e.logger, e.formatter, report)

	switch e.mode {
	case models.ModeSync:
		e.sync(ctx, executor, comparison)
	case models.ModeUpdate:
		e.update(ctx, executor, comparison)
	case models.ModeDiff:
		e.formatter.Start(0)
	}

	report.Finish(time.Now())

	if err := e.formatter.Complete(report); err != nil {
		e.logger.Warn(ctx, "Failed to write report", logging.Fields{"error": err.Error()})
	}

	e.logger.Debug(ctx, "Run finished", logging.Fields{
		"id":       report.ID,
		"status":   report.Status,
		"duration": report.Duration.String(),
	})

	return report, nil
}

// prepare checks the roots and creates the target when the mode and the
// options allow it
func (e *Engine) prepare(ctx context.Context, report *models.Report) error {
	info, err := e.source.Stat(ctx, "")
	if err != nil || !info.IsDir {
		return &models.ValidationError{Field: "Source", Message: "'" + e.source.Root() + "' is not a directory"}
	}

	if err := platform.CheckRoots(e.source.Root(), e.target.Root()); err != nil {
		return &models.ValidationError{Field: "Target", Message: err.Error()}
	}
	e.warnNested(ctx)

	info, err = e.target.Stat(ctx, "")
	switch {
	case err == nil && info.IsDir:
		return nil
	case err == nil:
		return &models.ValidationError{Field: "Target", Message: "'" + e.target.Root() + "' is not a directory"}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to inspect target: %w", err)
	case !e.opts.CreateTarget:
		return &models.ValidationError{Field: "Target", Message: "'" + e.target.Root() + "' does not exist (use create to make it)"}
	}

	// Update and diff never mutate; a missing target compares as empty
	if !e.mode.Actions().Create {
		return nil
	}

	if e.opts.Verbose {
		e.logger.Info(ctx, "Creating directory "+e.target.Root(), nil)
	} else {
		e.logger.Debug(ctx, "Creating directory "+e.target.Root(), nil)
	}
	if err := e.target.MkdirAll(ctx, ""); err != nil {
		return fmt.Errorf("failed to create target: %w", err)
	}
	report.Stats.DirsCreated++
	report.Added = append(report.Added, e.target.Root())
	return nil
}

// warnNested flags a root nested inside the other one that the patterns
// do not keep out of the walk
func (e *Engine) warnNested(ctx context.Context) {
	if rel, ok := platform.NestedIn(e.source.Root(), e.target.Root()); ok && e.filter.Accepts(rel) {
		e.logger.Warn(ctx, "Target is inside source and not excluded", logging.Fields{"target": e.target.Root(), "relative": rel})
	}
	if rel, ok := platform.NestedIn(e.target.Root(), e.source.Root()); ok && !e.filter.IgnoredOnTarget(rel) {
		e.logger.Warn(ctx, "Source is inside target and not ignored", logging.Fields{"source": e.source.Root(), "relative": rel})
	}
}

func (e *Engine) announce(ctx context.Context) {
	switch e.mode {
	case models.ModeSync:
		if e.opts.Verbose {
			e.logger.Info(ctx, fmt.Sprintf("Synchronizing directory %s with %s", e.target.Root(), e.source.Root()), nil)
		}
	case models.ModeUpdate:
		if e.opts.Verbose {
			e.logger.Info(ctx, fmt.Sprintf("Updating directory %s with %s", e.target.Root(), e.source.Root()), nil)
		}
	case models.ModeDiff:
		e.logger.Info(ctx, fmt.Sprintf("Difference of directory %s from %s", e.target.Root(), e.source.Root()), nil)
	}
	if e.opts.Verbose && e.mode != models.ModeDiff {
		e.logger.Info(ctx, "Source directory: "+e.source.Root(), nil)
	}
}

// step is one entry scheduled for an executor call
type step struct {
	rel string
	run func(ctx context.Context, rel string)
}

// sync purges, copies and updates according to the direction. Every set is
// walked in sorted order so parents are handled before their children.
func (e *Engine) sync(ctx context.Context, x *Executor, cmp *models.ComparisonResult) {
	actions := e.mode.Actions()
	var steps []step

	add := func(paths []string, run func(ctx context.Context, rel string)) {
		for _, rel := range paths {
			steps = append(steps, step{rel: rel, run: run})
		}
	}

	purge := actions.Purge && e.opts.Purge
	if purge && e.opts.Direction == models.DirectionBidirectional {
		e.logger.Warn(ctx, "Purge is not applied when syncing in both directions", nil)
		purge = false
	}

	forward := e.opts.Direction.Forward()
	backward := e.opts.Direction.Backward()

	if purge && forward {
		add(cmp.RightOnly.Sorted(), func(ctx context.Context, rel string) { x.Purge(ctx, e.target, rel) })
	}
	if purge && backward {
		add(cmp.LeftOnly.Sorted(), func(ctx context.Context, rel string) { x.Purge(ctx, e.source, rel) })
	}

	if actions.Copy && forward {
		add(cmp.LeftOnly.Sorted(), func(ctx context.Context, rel string) { x.Copy(ctx, e.source, e.target, rel) })
	}
	if actions.Copy && backward {
		// the target walk only honours ignore; the other sets still apply
		var accepted []string
		for _, rel := range cmp.RightOnly.Sorted() {
			if e.filter.Accepts(rel) {
				accepted = append(accepted, rel)
			}
		}
		add(accepted, func(ctx context.Context, rel string) { x.Copy(ctx, e.target, e.source, rel) })
	}

	if actions.Update {
		add(cmp.Common.Sorted(), x.Update)
	}

	e.execute(ctx, steps)
}

// update refreshes common entries only
func (e *Engine) update(ctx context.Context, x *Executor, cmp *models.ComparisonResult) {
	var steps []step
	for _, rel := range cmp.Common.Sorted() {
		steps = append(steps, step{rel: rel, run: x.Update})
	}
	e.execute(ctx, steps)
}

func (e *Engine) execute(ctx context.Context, steps []step) {
	e.formatter.Start(len(steps))
	for i, s := range steps {
		s.run(ctx, s.rel)
		e.formatter.Progress(output.ProgressUpdate{
			Type:     output.UpdateEntryDone,
			FilePath: s.rel,
			Current:  i + 1,
			Total:    len(steps),
		})
	}
}

// Synchronize runs mode between sourceDir and targetDir on the local
// filesystem and prints the report to stdout. An unknown mode is rejected
// before the filesystem is touched.
func Synchronize(ctx context.Context, sourceDir, targetDir, mode string, opts models.Options, logger logging.Logger) (*models.Report, error) {
	m, err := models.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	source, err := storage.NewLocal(sourceDir)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	target, err := storage.NewLocal(targetDir)
	if err != nil {
		return nil, err
	}
	defer target.Close()

	if logger == nil {
		level := logging.InfoLevel
		if opts.Verbose {
			level = logging.DebugLevel
		}
		logger = logging.NewConsoleLogger(os.Stdout, level)
	}

	engine, err := NewEngine(source, target, m, opts, output.NewHumanFormatter(os.Stdout), logger)
	if err != nil {
		return nil, err
	}
	return engine.Run(ctx)
}
