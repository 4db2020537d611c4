//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	dbusDest      = "org.freedesktop.Notifications"
	dbusPath      = "/org/freedesktop/Notifications"
	dbusInterface = "org.freedesktop.Notifications"

	appName      = "Song Viewer"
	desktopEntry = "song-viewer"
)

// dbusNotifier talks to the session notification daemon.
type dbusNotifier struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// New connects to the session bus. Without one there is no desktop to
// notify, so a silent no-op notifier is returned instead of an error.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return &stubNotifier{}, nil //nolint:nilerr // headless fallback
	}
	return &dbusNotifier{conn: conn, obj: conn.Object(dbusDest, dbusPath)}, nil
}

func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
	}

	// Notify(app_name, replaces_id, app_icon, summary, body, actions,
	// hints, expire_timeout) -> id
	call := n.obj.Call(
		dbusInterface+".Notify",
		0,
		appName,
		notif.ReplacesID,
		"", // no icon; tracks carry no artwork
		notif.Title,
		notif.Body,
		[]string{},
		hints,
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(dbusInterface+".CloseNotification", 0, id).Err
}

// stubNotifier swallows notifications when no daemon is reachable.
type stubNotifier struct{}

func (s *stubNotifier) Notify(_ Notification) (uint32, error) { return 0, nil }

func (s *stubNotifier) Close(_ uint32) error { return nil }
