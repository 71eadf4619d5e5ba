package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/sdejongh/dirsync/internal/platform"
	"github.com/sdejongh/dirsync/pkg/compare"
	"github.com/sdejongh/dirsync/pkg/logging"
	"github.com/sdejongh/dirsync/pkg/models"
	"github.com/sdejongh/dirsync/pkg/output"
	"github.com/sdejongh/dirsync/pkg/storage"
)

const (
	forcedDirMode  fs.FileMode = 0777
	forcedFileMode fs.FileMode = 0666
)

// Executor applies copy, update and purge to single entries. Every
// operation is isolated: a failure is counted, recorded and logged, and
// never stops the batch.
type Executor struct {
	source     storage.Backend
	target     storage.Backend
	comparator compare.Comparator
	opts       *models.Options
	logger     logging.Logger
	formatter  output.Formatter
	report     *models.Report
}

// NewExecutor creates an executor that records into report
func NewExecutor(
	source, target storage.Backend,
	opts *models.Options,
	logger logging.Logger,
	formatter output.Formatter,
	report *models.Report,
) *Executor {
	return &Executor{
		source:     source,
		target:     target,
		comparator: compare.NewTimestampComparator(opts.ModTimeOnly),
		opts:       opts,
		logger:     logger,
		formatter:  formatter,
		report:     report,
	}
}

// trace logs a per-entry action line; it is promoted to info when the run
// is verbose
func (x *Executor) trace(ctx context.Context, msg string, fields logging.Fields) {
	if x.opts.Verbose {
		x.logger.Info(ctx, msg, fields)
	} else {
		x.logger.Debug(ctx, msg, fields)
	}
}

func (x *Executor) succeeded(action models.Action, fullPath string) {
	x.formatter.Progress(output.ProgressUpdate{
		Type:     output.UpdateActionComplete,
		Action:   action,
		FilePath: fullPath,
	})
}

// fail records a per-entry failure
func (x *Executor) fail(ctx context.Context, action models.Action, fullPath string, counter *int, err error) {
	*counter++
	x.report.Errors = append(x.report.Errors, models.SyncError{
		FilePath:  fullPath,
		Operation: action,
		Error:     err.Error(),
		Timestamp: time.Now(),
	})
	x.logger.Error(ctx, fmt.Sprintf("Failed to %s %s", action, fullPath), err, nil)
	x.formatter.Progress(output.ProgressUpdate{
		Type:     output.UpdateActionError,
		Action:   action,
		FilePath: fullPath,
		Error:    err,
	})
}

// Copy creates rel under to from the entry under from. Directories are
// created empty; symbolic links are recreated rather than followed. Pipes,
// sockets and devices are left alone.
func (x *Executor) Copy(ctx context.Context, from, to storage.Backend, rel string) {
	info, err := from.Stat(ctx, rel)
	if err != nil {
		// vanished since the walk
		return
	}

	stats := &x.report.Stats
	fullPath := platform.Join(to.Root(), rel)

	if info.IsDir {
		exists, err := to.Exists(ctx, rel)
		if err == nil && exists {
			return
		}
		x.trace(ctx, "Creating directory "+fullPath, nil)
		if err := x.mkdir(ctx, to, rel); err != nil {
			x.fail(ctx, models.ActionMkdir, fullPath, &stats.DirCreateFailed, err)
			return
		}
		x.report.Added = append(x.report.Added, fullPath)
		x.succeeded(models.ActionMkdir, fullPath)
		return
	}

	if info.IsSpecial {
		x.logger.Debug(ctx, "Skipping special file", logging.Fields{"path": platform.Join(from.Root(), rel)})
		return
	}

	if parent := path.Dir(rel); parent != "." {
		parentFull := platform.Join(to.Root(), parent)
		exists, err := to.Exists(ctx, parent)
		if err != nil || !exists {
			if err := x.mkdir(ctx, to, parent); err != nil {
				x.fail(ctx, models.ActionMkdir, parentFull, &stats.DirCreateFailed, err)
				x.fail(ctx, models.ActionCopy, fullPath, &stats.CopyFailed, err)
				return
			}
			x.report.Added = append(x.report.Added, parentFull)
		} else if x.opts.ForcePermissions {
			if err := to.Chmod(ctx, parent, forcedDirMode); err != nil {
				x.logger.Warn(ctx, "Failed to force permissions", logging.Fields{"path": parentFull, "error": err.Error()})
			}
		}
	}

	x.trace(ctx, fmt.Sprintf("Copying file %s from %s to %s", path.Base(rel), platform.Join(from.Root(), path.Dir(rel)), platform.Join(to.Root(), path.Dir(rel))), nil)

	if err := x.transfer(ctx, from, to, rel, info); err != nil {
		x.fail(ctx, models.ActionCopy, fullPath, &stats.CopyFailed, err)
		return
	}

	stats.FilesCopied++
	x.report.Added = append(x.report.Added, fullPath)
	x.succeeded(models.ActionCopy, fullPath)
}

// mkdir creates rel and any missing parents, counting every directory it
// creates. With forced permissions the nearest existing ancestor is opened
// up first and the new directory afterwards.
func (x *Executor) mkdir(ctx context.Context, b storage.Backend, rel string) error {
	missing := []string{rel}
	existing := ""
	for _, dir := range reversed(platform.Ancestors(rel)) {
		exists, err := b.Exists(ctx, dir)
		if err != nil {
			return err
		}
		if exists {
			existing = dir
			break
		}
		missing = append(missing, dir)
	}

	if x.opts.ForcePermissions {
		if err := b.Chmod(ctx, existing, forcedDirMode); err != nil {
			return err
		}
	}

	if err := b.MkdirAll(ctx, rel); err != nil {
		return err
	}
	x.report.Stats.DirsCreated += len(missing)

	if x.opts.ForcePermissions {
		for _, dir := range missing {
			if err := b.Chmod(ctx, dir, forcedDirMode); err != nil {
				return err
			}
		}
	}
	return nil
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}

// transfer writes the entry described by info from one backend to the other
func (x *Executor) transfer(ctx context.Context, from, to storage.Backend, rel string, info *storage.FileInfo) error {
	if info.IsSymlink {
		return to.Symlink(ctx, rel, info.LinkTarget)
	}

	reader, err := from.Read(ctx, rel)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	defer reader.Close()

	if err := to.Write(ctx, rel, reader, info.Size, info); err != nil {
		return fmt.Errorf("failed to write destination: %w", err)
	}
	return nil
}

// Update refreshes a common entry in every permitted direction whose side
// is newer. Both directions are evaluated against the timestamps taken
// before either write, so with a bidirectional flow both may fire.
func (x *Executor) Update(ctx context.Context, rel string) {
	cmp, err := x.comparator.Compare(ctx, x.source, x.target, rel)
	if err != nil {
		return
	}
	if cmp.Source.IsDir || cmp.Target.IsDir {
		if cmp.Source.IsDir != cmp.Target.IsDir {
			x.logger.Warn(ctx, "Skipping entry that is a directory on one side only", logging.Fields{"path": rel})
		}
		return
	}

	if cmp.Source.IsSpecial || cmp.Target.IsSpecial {
		x.logger.Debug(ctx, "Skipping special file", logging.Fields{"path": rel})
		return
	}

	direction := x.opts.Direction
	if direction.Forward() && cmp.SourceNewer {
		x.replace(ctx, x.source, x.target, rel)
	}
	if direction.Backward() && cmp.TargetNewer {
		x.replace(ctx, x.target, x.source, rel)
	}
}

// replace overwrites rel under to with the current entry under from
func (x *Executor) replace(ctx context.Context, from, to storage.Backend, rel string) {
	fullPath := platform.Join(to.Root(), rel)
	x.trace(ctx, "Updating file "+fullPath, nil)

	info, err := from.Stat(ctx, rel)
	if err != nil {
		x.fail(ctx, models.ActionUpdate, fullPath, &x.report.Stats.UpdateFailed, err)
		return
	}

	if x.opts.ForcePermissions {
		if err := to.Chmod(ctx, rel, forcedFileMode); err != nil {
			x.fail(ctx, models.ActionUpdate, fullPath, &x.report.Stats.UpdateFailed, err)
			return
		}
	}

	if err := x.transfer(ctx, from, to, rel, info); err != nil {
		x.fail(ctx, models.ActionUpdate, fullPath, &x.report.Stats.UpdateFailed, err)
		return
	}

	x.report.Stats.FilesUpdated++
	x.report.Changed = append(x.report.Changed, fullPath)
	x.succeeded(models.ActionUpdate, fullPath)
}

// Purge deletes rel from b, recursively for directories. Entries already
// gone with a purged parent are skipped.
func (x *Executor) Purge(ctx context.Context, b storage.Backend, rel string) {
	info, err := b.Stat(ctx, rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		x.fail(ctx, models.ActionPurge, platform.Join(b.Root(), rel), &x.report.Stats.FilePurgeFailed, err)
		return
	}

	fullPath := platform.Join(b.Root(), rel)
	x.trace(ctx, "Deleting "+fullPath, nil)

	stats := &x.report.Stats
	if info.IsDir {
		if err := b.RemoveAll(ctx, rel); err != nil {
			x.fail(ctx, models.ActionPurge, fullPath, &stats.DirPurgeFailed, err)
			return
		}
		stats.DirsPurged++
	} else {
		if err := b.Remove(ctx, rel); err != nil {
			x.fail(ctx, models.ActionPurge, fullPath, &stats.FilePurgeFailed, err)
			return
		}
		stats.FilesPurged++
	}

	x.report.Deleted = append(x.report.Deleted, fullPath)
	x.succeeded(models.ActionPurge, fullPath)
}
