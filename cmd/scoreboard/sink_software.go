//go:build !rgbmatrix

package main

import (
	"github.com/cockroachdb/errors"

	"github.com/ledmatrix/scoreboard/internal/config"
	"github.com/ledmatrix/scoreboard/internal/display"
)

// newHardwareSink is unavailable in a binary built without the
// rgbmatrix tag (display.Hardware itself requires it and a configured
// cgo toolchain against rpi-rgb-led-matrix, per spec.md §1's GPIO/
// matrix-driver-is-out-of-scope note). A deployment that needs a real
// panel must build with `-tags rgbmatrix`; everything else here runs
// the simulator instead.
func newHardwareSink(geom config.MatrixGeometry) (display.Sink, error) {
	return nil, errors.New("scoreboard: hardware display sink requires building with -tags rgbmatrix")
}
