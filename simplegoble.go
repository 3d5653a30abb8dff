// Package simplegoble provides Go bindings to SimpleBLE's Bluetooth adapter
// enumeration.
//
// The BLE logic lives in the native SimpleBLE library. This package forwards
// the adapter surface (discovery, identifier, address, enabled check) across
// the cgo boundary and turns every native failure into a Go error.
//
// # Usage
//
//	enabled, err := simplegoble.BluetoothEnabled()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	adapters, err := simplegoble.GetAdapters()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer adapters.Close()
//
//	for _, a := range adapters {
//	    id, err := a.Identifier()
//	    ...
//	}
//
// # Building
//
// The native library is built from source by cmd/simplegoble-build, which
// also generates the cgo link directives. Binaries that link SimpleBLE are
// built with the simpleble tag:
//
//	go run ./cmd/simplegoble-build
//	go build -tags simpleble ./...
//
// # Concurrency
//
// Every call blocks until the native call returns. Independent adapters may
// be used from different goroutines, but a single Adapter must not be used
// concurrently without external synchronization.
package simplegoble

// Client forwards calls to one native layer. The zero value is not usable;
// create clients with New.
type Client struct {
	layer NativeLayer
}

// New creates a Client.
func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Client{layer: o.layer}
}

// defaultClient is built once and never modified.
var defaultClient = New()

// BluetoothEnabled reports whether Bluetooth is enabled on the host.
func (c *Client) BluetoothEnabled() (bool, error) {
	enabled, err := c.layer.BluetoothEnabled()
	if err != nil {
		return false, wrapError("bluetooth enabled", err)
	}
	return enabled, nil
}

// GetAdapters enumerates the adapters currently visible to the host, in the
// order the native library reports them. Each call returns fresh handles that
// the caller must Close.
func (c *Client) GetAdapters() (Adapters, error) {
	handles, err := c.layer.Adapters()
	if err != nil {
		return nil, wrapError("get adapters", err)
	}
	adapters := make(Adapters, 0, len(handles))
	for _, h := range handles {
		adapters = append(adapters, newAdapter(h))
	}
	return adapters, nil
}

// WithAdapters enumerates the adapters, passes them to fn and releases them
// when fn returns, whatever its outcome.
func (c *Client) WithAdapters(fn func(Adapters) error) error {
	adapters, err := c.GetAdapters()
	if err != nil {
		return err
	}
	defer adapters.Close()
	return fn(adapters)
}

// Snapshot enumerates the adapters, reads their identifier and address and
// releases them. Any accessor failure aborts the snapshot.
func (c *Client) Snapshot() ([]Info, error) {
	var infos []Info
	err := c.WithAdapters(func(adapters Adapters) error {
		infos = make([]Info, 0, len(adapters))
		for _, a := range adapters {
			info, err := a.Info()
			if err != nil {
				return err
			}
			infos = append(infos, info)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// BluetoothEnabled reports whether Bluetooth is enabled on the host using the
// default native layer.
func BluetoothEnabled() (bool, error) { return defaultClient.BluetoothEnabled() }

// GetAdapters enumerates the host adapters using the default native layer.
func GetAdapters() (Adapters, error) { return defaultClient.GetAdapters() }

// WithAdapters runs fn over the host adapters using the default native layer.
func WithAdapters(fn func(Adapters) error) error { return defaultClient.WithAdapters(fn) }

// Snapshot reads every host adapter using the default native layer.
func Snapshot() ([]Info, error) { return defaultClient.Snapshot() }
