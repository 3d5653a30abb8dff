// Package nativetest provides an in-memory native.Layer for deterministic
// tests of code built on the binding.
package nativetest

import (
	"fmt"
	"sync"

	"github.com/simpleble/simplegoble/internal/native"
)

// Adapter describes one fake host adapter.
type Adapter struct {
	Identifier string
	Address    string
}

// Layer is a fake host Bluetooth stack. The zero value has no adapters and
// Bluetooth disabled. All methods are safe for concurrent use.
type Layer struct {
	mu sync.Mutex

	enabled     bool
	enabledErr  error
	adapters    []Adapter
	adaptersErr error
	removed     map[string]bool

	enumerations int
	accessors    int
	acquired     int
	released     int
}

// New returns a layer with Bluetooth enabled and the given adapters.
func New(adapters ...Adapter) *Layer {
	return &Layer{
		enabled:  true,
		adapters: append([]Adapter(nil), adapters...),
		removed:  map[string]bool{},
	}
}

// SetEnabled sets what BluetoothEnabled reports.
func (l *Layer) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// FailEnabled makes BluetoothEnabled fail with err. A nil err clears it.
func (l *Layer) FailEnabled(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabledErr = err
}

// FailAdapters makes Adapters fail with err. A nil err clears it.
func (l *Layer) FailAdapters(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.adaptersErr = err
}

// Remove unplugs the adapter with the given identifier. Handles already
// held for it start failing.
func (l *Layer) Remove(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.removed == nil {
		l.removed = map[string]bool{}
	}
	l.removed[identifier] = true
	kept := l.adapters[:0]
	for _, a := range l.adapters {
		if a.Identifier != identifier {
			kept = append(kept, a)
		}
	}
	l.adapters = kept
}

// BluetoothEnabled implements native.Layer.
func (l *Layer) BluetoothEnabled() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.enabledErr != nil {
		return false, fmt.Errorf("bluetooth_enabled: %w", l.enabledErr)
	}
	return l.enabled, nil
}

// Adapters implements native.Layer.
func (l *Layer) Adapters() ([]native.Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enumerations++
	if l.adaptersErr != nil {
		return nil, fmt.Errorf("get_adapters: %w", l.adaptersErr)
	}
	handles := make([]native.Handle, 0, len(l.adapters))
	for _, a := range l.adapters {
		handles = append(handles, &handle{layer: l, adapter: a})
		l.acquired++
	}
	return handles, nil
}

// Stats is a snapshot of the layer's counters.
type Stats struct {
	Enumerations  int
	AccessorCalls int
	Acquired      int
	Released      int
}

// Stats returns the current counters.
func (l *Layer) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		Enumerations:  l.enumerations,
		AccessorCalls: l.accessors,
		Acquired:      l.acquired,
		Released:      l.released,
	}
}

type handle struct {
	layer    *Layer
	adapter  Adapter
	released bool
}

func (h *handle) lookup(op string) (Adapter, error) {
	h.layer.mu.Lock()
	defer h.layer.mu.Unlock()
	h.layer.accessors++
	if h.released {
		return Adapter{}, fmt.Errorf("%s: %w", op, native.ErrInvalidHandle)
	}
	if h.layer.removed[h.adapter.Identifier] {
		return Adapter{}, fmt.Errorf("%s: adapter %s removed: %w", op, h.adapter.Identifier, native.ErrCallFailed)
	}
	return h.adapter, nil
}

func (h *handle) Identifier() (string, error) {
	a, err := h.lookup("identifier")
	if err != nil {
		return "", err
	}
	return a.Identifier, nil
}

func (h *handle) Address() (string, error) {
	a, err := h.lookup("address")
	if err != nil {
		return "", err
	}
	if a.Address == "" {
		return "", fmt.Errorf("address: %w", native.ErrUnavailable)
	}
	return a.Address, nil
}

func (h *handle) Release() {
	h.layer.mu.Lock()
	defer h.layer.mu.Unlock()
	if h.released {
		panic("nativetest: handle released twice")
	}
	h.released = true
	h.layer.released++
}
