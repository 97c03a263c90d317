//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = "/org/freedesktop/Notifications"
	appName   = "Neurobeats"
	desktopID = "neurobeats"
)

// caller is the part of dbus.BusObject the notifier uses.
type caller interface {
	Call(method string, flags dbus.Flags, args ...any) *dbus.Call
}

type dbusNotifier struct {
	obj caller
}

// New connects to the session bus. Without one it returns a Noop notifier,
// since a missing bus only means no popups.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return Noop{}, nil //nolint:nilerr // no session bus is not an error
	}
	return &dbusNotifier{obj: conn.Object(busName, busPath)}, nil
}

// Notify calls org.freedesktop.Notifications.Notify(app_name, replaces_id,
// app_icon, summary, body, actions, hints, expire_timeout).
func (d *dbusNotifier) Notify(n Notification) (uint32, error) {
	call := d.obj.Call(busName+".Notify", 0,
		appName, n.ReplacesID, n.Icon, n.Title, n.Body, []string{}, hints(n), n.Timeout)
	if call.Err != nil {
		return 0, call.Err
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (d *dbusNotifier) Close(id uint32) error {
	return d.obj.Call(busName+".CloseNotification", 0, id).Err
}

func hints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopID),
	}
	if n.Category != "" {
		h["category"] = dbus.MakeVariant(n.Category)
	}
	if n.Transient {
		h["transient"] = dbus.MakeVariant(true)
	}
	return h
}
