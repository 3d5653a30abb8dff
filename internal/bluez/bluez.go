// Package bluez implements the native layer on top of BlueZ's D-Bus API.
//
// It is used on Linux hosts when the SimpleBLE archive is not linked in.
// Only adapter discovery and properties are read; nothing is written to the
// bus.
package bluez

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"

	"github.com/simpleble/simplegoble/internal/native"
)

const (
	bluezDest        = "org.bluez"
	adapterInterface = "org.bluez.Adapter1"
	objectManager    = "org.freedesktop.DBus.ObjectManager.GetManagedObjects"
	propertiesGet    = "org.freedesktop.DBus.Properties.Get"
)

type managedObjects = map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// bus is the subset of the system bus the layer needs.
type bus interface {
	ManagedObjects() (managedObjects, error)
	Property(path dbus.ObjectPath, iface, name string) (dbus.Variant, error)
}

type systemBus struct{}

func (systemBus) conn() (*dbus.Conn, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return conn, nil
}

func (b systemBus) ManagedObjects() (managedObjects, error) {
	conn, err := b.conn()
	if err != nil {
		return nil, err
	}
	var out managedObjects
	if err := conn.Object(bluezDest, "/").Call(objectManager, 0).Store(&out); err != nil {
		return nil, fmt.Errorf("GetManagedObjects: %w", err)
	}
	return out, nil
}

func (b systemBus) Property(p dbus.ObjectPath, iface, name string) (dbus.Variant, error) {
	conn, err := b.conn()
	if err != nil {
		return dbus.Variant{}, err
	}
	var v dbus.Variant
	if err := conn.Object(bluezDest, p).Call(propertiesGet, 0, iface, name).Store(&v); err != nil {
		return dbus.Variant{}, fmt.Errorf("get %s.%s on %s: %w", iface, name, p, err)
	}
	return v, nil
}

// Layer reads adapters from BlueZ.
type Layer struct {
	bus bus
	log logrus.FieldLogger
}

// New returns a layer on the system bus. A nil logger discards output.
func New(log logrus.FieldLogger) *Layer {
	return newLayer(systemBus{}, log)
}

func newLayer(b bus, log logrus.FieldLogger) *Layer {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Layer{bus: b, log: log.WithField("layer", "bluez")}
}

// adapterPaths returns the adapter object paths in kernel index order.
func adapterPaths(objs managedObjects) []dbus.ObjectPath {
	var paths []dbus.ObjectPath
	for p, ifaces := range objs {
		if _, ok := ifaces[adapterInterface]; ok {
			paths = append(paths, p)
		}
	}
	sort.Slice(paths, func(i, j int) bool {
		a, b := string(paths[i]), string(paths[j])
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return paths
}

// BluetoothEnabled reports whether any adapter is powered.
func (l *Layer) BluetoothEnabled() (bool, error) {
	objs, err := l.bus.ManagedObjects()
	if err != nil {
		return false, fmt.Errorf("bluetooth enabled: %v: %w", err, native.ErrCallFailed)
	}
	for _, p := range adapterPaths(objs) {
		powered, ok := objs[p][adapterInterface]["Powered"].Value().(bool)
		if ok && powered {
			l.log.WithField("adapter", p).Debug("powered adapter found")
			return true, nil
		}
	}
	l.log.Debug("no powered adapter")
	return false, nil
}

// Adapters enumerates org.bluez.Adapter1 objects.
func (l *Layer) Adapters() ([]native.Handle, error) {
	objs, err := l.bus.ManagedObjects()
	if err != nil {
		return nil, fmt.Errorf("get adapters: %v: %w", err, native.ErrCallFailed)
	}
	paths := adapterPaths(objs)
	handles := make([]native.Handle, 0, len(paths))
	for _, p := range paths {
		handles = append(handles, &adapter{bus: l.bus, path: p})
	}
	l.log.WithField("count", len(handles)).Debug("enumerated adapters")
	return handles, nil
}

type adapter struct {
	bus      bus
	path     dbus.ObjectPath
	released bool
}

// address reads the Address property live, which also proves the adapter
// still exists.
func (a *adapter) address(op string) (string, error) {
	if a.released {
		return "", fmt.Errorf("%s: %w", op, native.ErrInvalidHandle)
	}
	v, err := a.bus.Property(a.path, adapterInterface, "Address")
	if err != nil {
		return "", fmt.Errorf("%s: %v: %w", op, err, native.ErrCallFailed)
	}
	addr, ok := v.Value().(string)
	if !ok || addr == "" {
		return "", fmt.Errorf("%s: %w", op, native.ErrUnavailable)
	}
	return strings.ToUpper(addr), nil
}

func (a *adapter) Identifier() (string, error) {
	if _, err := a.address("identifier"); err != nil && !errors.Is(err, native.ErrUnavailable) {
		return "", err
	}
	return path.Base(string(a.path)), nil
}

func (a *adapter) Address() (string, error) {
	return a.address("address")
}

func (a *adapter) Release() { a.released = true }
