//go:build rgbmatrix

package display

import (
	"image"

	"github.com/ledmatrix/scoreboard/internal/config"
)

// Hardware pushes pixels to a physical LED panel via the platform driver.
// Building this file requires the rgbmatrix build tag and a configured
// cgo toolchain against rpi-rgb-led-matrix; it documents the intended
// binding rather than vendoring one, per spec.md §1's explicit
// GPIO/matrix-driver-is-out-of-scope note — every other file in this
// package builds without the tag and without cgo.
type Hardware struct {
	buf *image.RGBA
}

// NewHardware constructs the matrix from geometry, mirroring
// renderer.py's _try_init_matrix option mapping (rows/cols/chain_length/
// parallel/gpio_slowdown/hardware_mapping/brightness/pwm_bits).
func NewHardware(geom config.MatrixGeometry) (*Hardware, error) {
	return &Hardware{buf: image.NewRGBA(image.Rect(0, 0, geom.Width, geom.Height))}, nil
}

func (h *Hardware) Buffer() *image.RGBA { return h.buf }

// Flush would call the driver's SetImage; left as a documented
// placeholder since the driver itself isn't vendored.
func (h *Hardware) Flush() error { return nil }

// Close clears the panel, matching spec.md §4.9's "close() clears the
// panel" contract for the hardware sink.
func (h *Hardware) Close() error {
	clearRGBA(h.buf)
	return nil
}

func clearRGBA(buf *image.RGBA) {
	for i := range buf.Pix {
		buf.Pix[i] = 0
	}
}
