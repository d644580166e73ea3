package reader

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"
)

// ErrAlreadyInitialized is returned by Initialize once the process-wide
// registry has been assembled, whether by Initialize or by Default.
var ErrAlreadyInitialized = errors.New("reader registry already initialized")

var (
	// defaultRegistry is assembled exactly once and never mutated afterwards.
	defaultRegistry *Registry

	// initOnce guards assembly of defaultRegistry.
	initOnce sync.Once
)

// Initialize assembles the process-wide registry from the host's readers
// followed by the baseline readers, so host readers win dispatch.
// It must run before concurrent traffic begins; only the first call that
// reaches assembly succeeds.
func Initialize(readers ...ValueReader) error {
	assembled := false
	initOnce.Do(func() {
		defaultRegistry = assemble(readers)
		assembled = true
	})
	if !assembled {
		return ErrAlreadyInitialized
	}
	return nil
}

// Default returns the process-wide registry, assembling the baseline
// registry on first use if Initialize was never called.
func Default() *Registry {
	initOnce.Do(func() {
		defaultRegistry = assemble(nil)
	})
	return defaultRegistry
}

func assemble(extra []ValueReader) *Registry {
	readers := make([]ValueReader, 0, len(extra)+len(Baseline()))
	readers = append(readers, extra...)
	readers = append(readers, Baseline()...)

	r := NewRegistry(readers, Builders())
	slog.Debug("reader registry assembled",
		"readers", len(r.readers),
		"host_readers", len(extra),
		"builders", len(r.builders),
	)
	return r
}

// Read converts raw to t with the process-wide registry.
func Read(t reflect.Type, raw any) (any, error) {
	return Default().Read(t, raw)
}

// ReadCapture converts raw through c with the process-wide registry.
func ReadCapture(c Capture, raw any) (any, error) {
	return Default().ReadCapture(c, raw)
}
