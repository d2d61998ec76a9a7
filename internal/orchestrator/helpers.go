package orchestrator

import (
	"context"
	"sync"
	"time"
)

// helperJoinTimeout bounds how long Run waits for the optional helper
// goroutines to stop on shutdown (§5 Cancellation: "Helper threads are
// joined with a bounded timeout (2 s); timeout is not fatal.").
const helperJoinTimeout = 2 * time.Second

// heartbeatInterval is how often the optional heartbeat worker posts a
// last-seen timestamp (§5: "periodically posts a last-seen timestamp to
// the cloud store").
const heartbeatInterval = 30 * time.Second

// HeartbeatPoster is the optional collaborator behind the §5 heartbeat
// worker. A concrete implementation (external/cloudstore) posts a
// last-seen timestamp to the cloud config store; it may block on HTTP,
// which is exactly why this runs on its own goroutine rather than inside
// the tick loop.
type HeartbeatPoster interface {
	PostHeartbeat(ctx context.Context, now time.Time) error
}

// CommandListener is the optional collaborator behind the §5 command
// listener worker. Listen blocks, serving the long-lived socket, until
// ctx is cancelled or a fatal error occurs; its only permitted effect on
// the main loop is calling Orchestrator.RequestReload (never direct
// mutation of live objects, per §5).
type CommandListener interface {
	Listen(ctx context.Context) error
}

// startHelpers launches whichever optional workers were configured and
// returns a function that waits (bounded by helperJoinTimeout) for them
// to exit. Call the returned function once, on the way out of Run.
func (o *Orchestrator) startHelpers(ctx context.Context) func() {
	var wg sync.WaitGroup

	if o.heartbeat != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.runHeartbeat(ctx)
		}()
	}

	if o.commands != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := o.commands.Listen(ctx); err != nil && ctx.Err() == nil {
				o.logger.Warn("orchestrator: command listener stopped unexpectedly", "error", err)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	return func() {
		select {
		case <-done:
		case <-time.After(helperJoinTimeout):
			o.logger.Warn("orchestrator: helper goroutines did not stop within the join timeout, continuing shutdown")
		}
	}
}

func (o *Orchestrator) runHeartbeat(ctx context.Context) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := o.heartbeat.PostHeartbeat(ctx, now); err != nil {
				o.logger.Warn("orchestrator: heartbeat post failed", "error", err)
			}
		}
	}
}
