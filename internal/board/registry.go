package board

import "fmt"

// Factory builds one Board instance. Built-in boards register a Factory
// from their package's init(), mirroring spec.md's design-notes
// compile-time capability registry in place of Python's runtime plugin
// import.
type Factory func() Board

var factories = map[string]Factory{}

// Register adds a board factory under name. Call from an init() in the
// board's defining file — panics on a duplicate name, since that can only
// happen from a programming error at startup, never at runtime.
func Register(name string, factory Factory) {
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("board: factory already registered for %q", name))
	}
	factories[name] = factory
}

// New instantiates the board registered under name, or (nil, false) if
// none is registered.
func New(name string) (Board, bool) {
	factory, ok := factories[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Names lists every registered factory name, for diagnostics/tests.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
