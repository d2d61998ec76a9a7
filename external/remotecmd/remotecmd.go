// Package remotecmd implements the remote command channel spec.md §1 and
// §6 describe as an out-of-scope collaborator: "a remote command channel
// (apply-config / restart messages) — a thin side input that merely
// triggers configuration reload." It satisfies
// internal/orchestrator.CommandListener. Grounded on the accept-loop shape
// found across the example pack's own socket listeners (one goroutine per
// accepted connection, each decoding one JSON envelope and exiting), using
// a Unix domain socket since the channel is local-only by design.
package remotecmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/ledmatrix/scoreboard/internal/platform/logging"
)

// Command names the §6 envelope's "type" field.
type Command string

const (
	ApplyConfig Command = "APPLY_CONFIG"
	Restart     Command = "RESTART"
	FetchAssets Command = "FETCH_ASSETS"
	Ping        Command = "PING"
)

// Envelope is the §6 wire shape: `{ "type": ..., "payload": <object> }`.
type Envelope struct {
	Type    Command         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handlers are the effects a received command is permitted to have on the
// process (§5 Ordering guarantees: "the only effect on the main loop is
// setting reload_requested or writing a new config file — never direct
// mutation of live objects").
type Handlers struct {
	// ApplyConfig atomically writes payload to the configured path and
	// requests a reload. Required.
	ApplyConfig func(payload json.RawMessage) error
	// Restart re-execs the process. Required for RESTART to have any
	// effect; a nil value logs and ignores RESTART requests instead.
	Restart func() error
	// FetchAssets triggers an out-of-band asset prefetch. Optional.
	FetchAssets func(ctx context.Context) error
}

// Listener implements orchestrator.CommandListener over a Unix domain
// socket at SocketPath.
type Listener struct {
	SocketPath string
	Handlers   Handlers
	Logger     *logging.Logger
}

// Listen binds SocketPath and serves connections until ctx is cancelled or
// binding fails. Each accepted connection carries exactly one envelope;
// the listener closes it after responding. Matches
// orchestrator.CommandListener's contract: Listen blocks and its return
// value is only ever a setup-time or listener-fatal error, never a
// per-command one (per-command failures are logged and the connection
// moves on).
func (l *Listener) Listen(ctx context.Context) error {
	logger := l.Logger
	if logger == nil {
		logger = logging.Default()
	}

	_ = os.Remove(l.SocketPath)
	ln, err := net.Listen("unix", l.SocketPath)
	if err != nil {
		return fmt.Errorf("remotecmd: listen on %s: %w", l.SocketPath, err)
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		_ = ln.Close()
		close(done)
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-done:
				wg.Wait()
				return nil
			default:
				logger.Warn("remotecmd: accept failed, listener stopping", "error", err)
				wg.Wait()
				return fmt.Errorf("remotecmd: accept: %w", err)
			}
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.handleConn(ctx, conn, logger)
		}()
	}
}

func (l *Listener) handleConn(ctx context.Context, conn net.Conn, logger *logging.Logger) {
	defer conn.Close()

	var env Envelope
	if err := json.NewDecoder(conn).Decode(&env); err != nil {
		logger.Warn("remotecmd: malformed command envelope, dropping connection", "error", err)
		l.ack(conn, false, "malformed envelope")
		return
	}

	switch Command(strings.ToUpper(string(env.Type))) {
	case ApplyConfig:
		if l.Handlers.ApplyConfig == nil {
			l.ack(conn, false, "apply-config not supported")
			return
		}
		if err := l.Handlers.ApplyConfig(env.Payload); err != nil {
			logger.Warn("remotecmd: apply-config failed", "error", err)
			l.ack(conn, false, err.Error())
			return
		}
		l.ack(conn, true, "")

	case Restart:
		if l.Handlers.Restart == nil {
			logger.Warn("remotecmd: restart requested but no handler configured, ignoring")
			l.ack(conn, false, "restart not supported")
			return
		}
		l.ack(conn, true, "")
		if err := l.Handlers.Restart(); err != nil {
			logger.Error("remotecmd: restart failed", "error", err)
		}

	case FetchAssets:
		if l.Handlers.FetchAssets == nil {
			logger.Warn("remotecmd: fetch-assets requested but no handler configured, ignoring")
			l.ack(conn, false, "fetch-assets not supported")
			return
		}
		if err := l.Handlers.FetchAssets(ctx); err != nil {
			logger.Warn("remotecmd: fetch-assets failed", "error", err)
			l.ack(conn, false, err.Error())
			return
		}
		l.ack(conn, true, "")

	case Ping:
		l.ack(conn, true, "")

	default:
		// §6: "Unknown types are logged and ignored."
		logger.Warn("remotecmd: unknown command type, ignoring", "type", env.Type)
		l.ack(conn, false, "unknown command type")
	}
}

type ackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (l *Listener) ack(conn net.Conn, ok bool, errMsg string) {
	_ = json.NewEncoder(conn).Encode(ackResponse{OK: ok, Error: errMsg})
}

// WriteConfigAtomic writes payload to path via a temp-file-plus-rename,
// the same best-effort-locking shape §5's shared-resource policy requires
// of every idempotent file write ("an in-progress temp file + atomic
// rename"). A cmd composition root wires this as the ApplyConfig handler,
// pairing it with Orchestrator.RequestReload.
func WriteConfigAtomic(path string, payload []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("remotecmd: write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("remotecmd: rename temp config into place: %w", err)
	}
	return nil
}
