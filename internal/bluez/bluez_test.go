package bluez

import (
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpleble/simplegoble/internal/native"
)

// fakeBus serves a fixed object tree.
type fakeBus struct {
	objs managedObjects
	err  error
}

func (b *fakeBus) ManagedObjects() (managedObjects, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.objs, nil
}

func (b *fakeBus) Property(p dbus.ObjectPath, iface, name string) (dbus.Variant, error) {
	ifaces, ok := b.objs[p]
	if !ok {
		return dbus.Variant{}, errors.New("org.freedesktop.DBus.Error.UnknownObject")
	}
	props, ok := ifaces[iface]
	if !ok {
		return dbus.Variant{}, errors.New("org.freedesktop.DBus.Error.UnknownInterface")
	}
	return props[name], nil
}

func adapterObject(addr string, powered bool) map[string]map[string]dbus.Variant {
	return map[string]map[string]dbus.Variant{
		adapterInterface: {
			"Address": dbus.MakeVariant(addr),
			"Powered": dbus.MakeVariant(powered),
		},
	}
}

func newTestBus() *fakeBus {
	return &fakeBus{objs: managedObjects{
		"/org/bluez":           {"org.bluez.AgentManager1": {}},
		"/org/bluez/hci10":     adapterObject("00:11:22:33:44:10", false),
		"/org/bluez/hci1":      adapterObject("00:11:22:33:44:01", true),
		"/org/bluez/hci0":      adapterObject("aa:bb:cc:dd:ee:ff", false),
		"/org/bluez/hci0/dev_": {"org.bluez.Device1": {}},
	}}
}

func TestAdaptersOrderedByIndex(t *testing.T) {
	layer := newLayer(newTestBus(), nil)

	handles, err := layer.Adapters()
	require.NoError(t, err)
	require.Len(t, handles, 3)

	var ids []string
	for _, h := range handles {
		id, err := h.Identifier()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"hci0", "hci1", "hci10"}, ids)

	addr, err := handles[0].Address()
	require.NoError(t, err)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", addr)
}

func TestBluetoothEnabled(t *testing.T) {
	b := newTestBus()
	layer := newLayer(b, nil)

	enabled, err := layer.BluetoothEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	delete(b.objs, "/org/bluez/hci1")
	enabled, err = layer.BluetoothEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	b.objs = managedObjects{}
	enabled, err = layer.BluetoothEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestBusFailure(t *testing.T) {
	layer := newLayer(&fakeBus{err: errors.New("org.freedesktop.DBus.Error.ServiceUnknown")}, nil)

	enabled, err := layer.BluetoothEnabled()
	assert.ErrorIs(t, err, native.ErrCallFailed)
	assert.False(t, enabled)

	handles, err := layer.Adapters()
	assert.ErrorIs(t, err, native.ErrCallFailed)
	assert.Nil(t, handles)
}

func TestRemovedAdapterFails(t *testing.T) {
	b := newTestBus()
	layer := newLayer(b, nil)

	handles, err := layer.Adapters()
	require.NoError(t, err)

	delete(b.objs, "/org/bluez/hci0")

	_, err = handles[0].Identifier()
	assert.ErrorIs(t, err, native.ErrCallFailed)
	_, err = handles[0].Address()
	assert.ErrorIs(t, err, native.ErrCallFailed)

	_, err = handles[1].Address()
	assert.NoError(t, err)
}

func TestReleasedHandle(t *testing.T) {
	layer := newLayer(newTestBus(), nil)

	handles, err := layer.Adapters()
	require.NoError(t, err)

	handles[0].Release()
	_, err = handles[0].Address()
	assert.ErrorIs(t, err, native.ErrInvalidHandle)
}

func TestMissingAddress(t *testing.T) {
	b := &fakeBus{objs: managedObjects{
		"/org/bluez/hci0": {adapterInterface: {"Powered": dbus.MakeVariant(true)}},
	}}
	layer := newLayer(b, nil)

	handles, err := layer.Adapters()
	require.NoError(t, err)
	require.Len(t, handles, 1)

	_, err = handles[0].Address()
	assert.ErrorIs(t, err, native.ErrUnavailable)

	id, err := handles[0].Identifier()
	require.NoError(t, err)
	assert.Equal(t, "hci0", id)
}
