// Package observability carries the diagnostic side-channels that sit
// beside the tick loop without being part of it: an optional pprof
// endpoint here, the Prometheus metrics registry in
// internal/platform/metrics. Grounded on the teacher's own
// StartPprofServer/StopPprofServer pair, generalized away from its
// config.Config/slog dependency so it composes with this module's own
// addr/enabled flags and *logging.Logger.
package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ledmatrix/scoreboard/internal/platform/logging"
)

// StartPprofServer starts a debug pprof server on addr if enabled is
// true, also serving the Prometheus registry (internal/platform/metrics)
// at /metrics alongside it — one debug side-channel, one port. Returns
// (nil, nil) when disabled, matching §7's general degrade-quietly-when-
// not-configured posture for optional side channels.
func StartPprofServer(enabled bool, addr string, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !enabled {
		logger.Info("pprof disabled")
		return nil, nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("pprof server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()

	return srv, nil
}

// StopPprofServer shuts srv down within timeout; a nil srv (pprof was
// never started) is a no-op.
func StopPprofServer(srv *http.Server, logger *logging.Logger, timeout time.Duration) error {
	if srv == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("pprof server stopped")
	return nil
}
