package orchestrator

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchReloadSignals starts a goroutine translating SIGHUP/SIGUSR1 into
// o.RequestReload calls (spec.md §6 Signals: "Hangup: request
// configuration reload. User-signal-1: same, where available."),
// mirroring cmd/api/main.go's signal.NotifyContext pattern but for a
// pair of non-terminating signals rather than a shutdown one. The
// caller's own signal.NotifyContext(ctx, SIGINT, SIGTERM) remains the
// mechanism for shutdown — Run already exits once that ctx is done.
//
// Returns a stop function; call it after Run returns to release the
// signal registration.
func WatchReloadSignals(ctx context.Context, o *Orchestrator) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGUSR1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ch:
				o.RequestReload()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		<-done
	}
}
