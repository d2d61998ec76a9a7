package remotecmd

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startListener(t *testing.T, handlers Handlers) (socketPath string, stop func()) {
	t.Helper()
	socketPath = filepath.Join(t.TempDir(), "remotecmd.sock")
	l := &Listener{SocketPath: socketPath, Handlers: handlers}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Listen(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(socketPath)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	return socketPath, func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("listener did not stop after context cancellation")
		}
	}
}

func sendEnvelope(t *testing.T, socketPath string, env Envelope) ackResponse {
	t.Helper()
	conn, err := net.DialTimeout("unix", socketPath, time.Second)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, json.NewEncoder(conn).Encode(env))

	var resp ackResponse
	require.NoError(t, json.NewDecoder(conn).Decode(&resp))
	return resp
}

func TestListener_ApplyConfig_InvokesHandler(t *testing.T) {
	var gotPayload string
	socketPath, stop := startListener(t, Handlers{
		ApplyConfig: func(payload json.RawMessage) error {
			gotPayload = string(payload)
			return nil
		},
	})
	defer stop()

	resp := sendEnvelope(t, socketPath, Envelope{Type: ApplyConfig, Payload: json.RawMessage(`{"timezone":"UTC"}`)})
	assert.True(t, resp.OK)
	assert.JSONEq(t, `{"timezone":"UTC"}`, gotPayload)
}

func TestListener_Ping_AcksWithoutHandlers(t *testing.T) {
	socketPath, stop := startListener(t, Handlers{})
	defer stop()

	resp := sendEnvelope(t, socketPath, Envelope{Type: Ping})
	assert.True(t, resp.OK)
}

func TestListener_UnknownType_IsAckedAsNotOK(t *testing.T) {
	socketPath, stop := startListener(t, Handlers{})
	defer stop()

	resp := sendEnvelope(t, socketPath, Envelope{Type: Command("NONSENSE")})
	assert.False(t, resp.OK)
}

func TestListener_Restart_NoHandlerIsAckedAsNotOK(t *testing.T) {
	socketPath, stop := startListener(t, Handlers{})
	defer stop()

	resp := sendEnvelope(t, socketPath, Envelope{Type: Restart})
	assert.False(t, resp.OK)
}

func TestListener_FetchAssets_InvokesHandler(t *testing.T) {
	called := false
	socketPath, stop := startListener(t, Handlers{
		FetchAssets: func(ctx context.Context) error {
			called = true
			return nil
		},
	})
	defer stop()

	resp := sendEnvelope(t, socketPath, Envelope{Type: FetchAssets})
	assert.True(t, resp.OK)
	assert.True(t, called)
}

func TestWriteConfigAtomic_WritesFileContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, WriteConfigAtomic(path, []byte(`{"timezone":"UTC"}`)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"timezone":"UTC"}`, string(raw))
}
