package fs

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/voxnote/pkg/core"
)

// watcherBackoff restarts a failed watcher a few times before giving up.
var watcherBackoff = supervisor.Backoff{
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     5 * time.Second,
	Multiplier:      2,
	ResetDuration:   time.Minute,
	MaxRestarts:     5,
	MaxDuration:     10 * time.Minute,
}

// Watch reports changes to keys matching pattern (glob on the raw key, empty
// for everything). The watcher runs under a supervisor and the channel is
// closed once ctx is done.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	events := make(chan core.Event, 16)
	spec := supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return newWatchWorker(s, pattern, events), nil
		},
		Backoff:       watcherBackoff,
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("fs-watch", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		close(events)
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	lifecycle.Go(context.Background(), func(context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sup.Stop(stopCtx); err != nil {
			s.config.Logger.Warn("failed to stop watcher", "error", err)
		}
		close(events)
		return nil
	})

	return events, nil
}
