//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

func send(title, body string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"print-composer",
		uint32(0),
		"",
		title,
		body,
		[]string{},
		map[string]dbus.Variant{},
		int32(5000))
	if call.Err != nil {
		return fmt.Errorf("notification call failed: %w", call.Err)
	}
	return nil
}
