package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sdejongh/dirsync/pkg/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var flags SyncFlags
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "watch <source> <target>",
		Short: "Re-run the configured action whenever the trees change",
		Long: `Run the action configured in the option files once, then again after
every quiet period following filesystem changes. The target is watched too
when files may flow back into the source. Stops on interrupt.`,
		Args: requireTwoDirs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, &flags, delay)
		},
	}

	addSyncFlags(cmd, &flags)
	cmd.Flags().DurationVar(&delay, "delay", time.Second, "quiet period before re-running")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, f *SyncFlags, delay time.Duration) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := newRunner(cmd, args, f, "")
	if err != nil {
		return err
	}
	defer r.Close()

	// Watch the source before the first run so no change slips between them
	source, err := watch.New(args[0], r.logger)
	if err != nil {
		return configError(err)
	}
	defer source.Close()
	watchers := []*watch.Watcher{source}

	if _, err := r.runOnce(ctx); err != nil {
		return configError(err)
	}

	// The first run may have created the target
	if r.opts.Direction.Backward() {
		target, err := watch.New(args[1], r.logger)
		if err != nil {
			return configError(err)
		}
		defer target.Close()
		watchers = append(watchers, target)
	}

	// Watchers only signal; runs are serialized by the loop below
	triggers := make(chan struct{}, 1)
	notify := func(context.Context) {
		select {
		case triggers <- struct{}{}:
		default:
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range watchers {
		g.Go(func() error {
			return w.Run(gctx, delay, notify)
		})
	}
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-triggers:
				if _, err := r.runOnce(gctx); err != nil {
					return configError(err)
				}
			}
		}
	})

	return g.Wait()
}
