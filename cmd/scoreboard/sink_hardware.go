//go:build rgbmatrix

package main

import (
	"github.com/ledmatrix/scoreboard/internal/config"
	"github.com/ledmatrix/scoreboard/internal/display"
)

// newHardwareSink builds the real LED matrix sink; only compiled into a
// binary built with `-tags rgbmatrix`.
func newHardwareSink(geom config.MatrixGeometry) (display.Sink, error) {
	return display.NewHardware(geom)
}
