package display

import (
	"image"

	"github.com/cockroachdb/errors"
)

// Mock is the spec.md §4.9 test sink: it records how many times Buffer,
// Flush, and Close were called, and can be configured to fail in the two
// shapes the orchestrator has to tolerate (a failed render never reaching
// the sink isn't a sink concern; a failed flush/render call against the
// sink itself is).
type Mock struct {
	buf            *image.RGBA
	BufferCalls    int
	FlushCalls     int
	CloseCalls     int
	FailOnFlush    bool
	FailOnRender   bool
}

// NewMock allocates a buffer sized width x height, same as Simulator.
func NewMock(width, height int) *Mock {
	return &Mock{buf: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Buffer returns nil when FailOnRender is set, simulating a sink that
// cannot currently lend its buffer (e.g. torn down mid-reload).
func (m *Mock) Buffer() *image.RGBA {
	m.BufferCalls++
	if m.FailOnRender {
		return nil
	}
	return m.buf
}

func (m *Mock) Flush() error {
	m.FlushCalls++
	if m.FailOnFlush {
		return errors.New("display: mock flush failure")
	}
	return nil
}

func (m *Mock) Close() error {
	m.CloseCalls++
	return nil
}
