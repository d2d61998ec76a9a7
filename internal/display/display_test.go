package display

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledmatrix/scoreboard/internal/platform/logging"
)

func TestNewSimulator_CreatesOutputDirAndBuffer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := NewSimulator(dir, 64, 32, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, s.Buffer())
	assert.Equal(t, 64, s.Buffer().Bounds().Dx())
	assert.Equal(t, 32, s.Buffer().Bounds().Dy())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSimulator_FlushWritesFramePNG(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSimulator(dir, 8, 8, logging.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Flush())

	f, err := os.Open(filepath.Join(dir, "frame.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestSimulator_WritesTimestampedSnapshotEveryHundredthFlush(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSimulator(dir, 4, 4, logging.NewNop())
	require.NoError(t, err)

	for i := 0; i < snapshotEvery; i++ {
		require.NoError(t, s.Flush())
	}

	_, err = os.Stat(filepath.Join(dir, "frame_000100.png"))
	assert.NoError(t, err, "expected a snapshot at the 100th flush")
}

func TestSimulator_Close_IsNoop(t *testing.T) {
	s, err := NewSimulator(t.TempDir(), 4, 4, logging.NewNop())
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestMock_RecordsCallsAndHonorsFailureModes(t *testing.T) {
	m := NewMock(16, 16)

	buf := m.Buffer()
	require.NotNil(t, buf)
	assert.Equal(t, 1, m.BufferCalls)

	require.NoError(t, m.Flush())
	assert.Equal(t, 1, m.FlushCalls)

	require.NoError(t, m.Close())
	assert.Equal(t, 1, m.CloseCalls)

	m.FailOnFlush = true
	assert.Error(t, m.Flush())

	m.FailOnRender = true
	assert.Nil(t, m.Buffer())
}

func TestMock_ImplementsSink(t *testing.T) {
	var _ Sink = NewMock(4, 4)
	var s Sink = NewMock(4, 4)
	assert.IsType(t, (*image.RGBA)(nil), s.Buffer())
}
