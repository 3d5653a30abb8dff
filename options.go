package simplegoble

import (
	"github.com/simpleble/simplegoble/internal/native"
)

// NativeLayer is the stack a Client forwards to. The default is chosen at
// compile time: SimpleBLE when built with the simpleble tag, BlueZ over D-Bus
// on other Linux builds, and an always-failing stub elsewhere.
type NativeLayer = native.Layer

// NativeHandle is one adapter object owned by a NativeLayer.
type NativeHandle = native.Handle

// options holds the configuration for a Client.
type options struct {
	layer native.Layer
}

// Option is a functional option for configuring a Client.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		layer: defaultLayer(),
	}
}

// WithNative sets the native layer the client forwards to.
// Tests use it to inject a fake stack.
func WithNative(layer NativeLayer) Option {
	return func(o *options) {
		if layer != nil {
			o.layer = layer
		}
	}
}
