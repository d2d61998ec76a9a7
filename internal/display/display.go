// Package display implements the C9 sink contract (spec.md §4.9): the
// final destination a rendered pixel buffer is flushed to, either a
// physical LED matrix or a PNG simulator, behind one shared interface so
// the orchestrator never branches on which is active.
package display

import "image"

// Sink is the shared contract every display destination satisfies.
// Buffer lends the sink-owned buffer for one scene draw; Flush pushes
// whatever was last rendered to the physical/simulated destination;
// Close releases any resource the sink holds (a clear panel for
// hardware, nothing for the simulator).
type Sink interface {
	Buffer() *image.RGBA
	Flush() error
	Close() error
}
