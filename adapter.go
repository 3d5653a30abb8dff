package simplegoble

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Adapter is an owned handle to a host Bluetooth adapter.
//
// Accessors always call into the native library; nothing is cached, so an
// adapter removed from the host fails instead of returning stale text.
// Close releases the native object.
type Adapter struct {
	handle NativeHandle

	once   sync.Once
	closed atomic.Bool
}

func newAdapter(h NativeHandle) *Adapter {
	return &Adapter{handle: h}
}

// Identifier returns the adapter identifier (e.g. "hci0" on Linux).
func (a *Adapter) Identifier() (string, error) {
	if a.isClosed() {
		return "", closedError("adapter identifier")
	}
	id, err := a.handle.Identifier()
	if err != nil {
		return "", wrapError("adapter identifier", err)
	}
	return id, nil
}

// Address returns the adapter MAC address.
func (a *Adapter) Address() (string, error) {
	if a.isClosed() {
		return "", closedError("adapter address")
	}
	addr, err := a.handle.Address()
	if err != nil {
		return "", wrapError("adapter address", err)
	}
	return addr, nil
}

// Info reads the identifier and address.
func (a *Adapter) Info() (Info, error) {
	id, err := a.Identifier()
	if err != nil {
		return Info{}, err
	}
	addr, err := a.Address()
	if err != nil {
		return Info{}, err
	}
	return Info{Identifier: id, Address: addr}, nil
}

// Close releases the native adapter. It is safe to call more than once.
func (a *Adapter) Close() error {
	if a == nil {
		return nil
	}
	a.once.Do(func() {
		a.closed.Store(true)
		if a.handle != nil {
			a.handle.Release()
		}
	})
	return nil
}

func (a *Adapter) isClosed() bool {
	return a == nil || a.closed.Load() || a.handle == nil
}

// String returns a short description without calling into the native layer.
func (a *Adapter) String() string {
	if a.isClosed() {
		return "Adapter(closed)"
	}
	return fmt.Sprintf("Adapter(%p)", a.handle)
}

// Adapters is an ordered list of adapters from one enumeration.
type Adapters []*Adapter

// Close releases every adapter in the list.
func (as Adapters) Close() error {
	var errs []error
	for _, a := range as {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Info is a plain copy of an adapter's attributes.
type Info struct {
	Identifier string
	Address    string
}

// String returns the "id [address]" form.
func (i Info) String() string {
	return fmt.Sprintf("%s [%s]", i.Identifier, i.Address)
}
