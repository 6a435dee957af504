// Package notify sends desktop notifications about completed print jobs.
// On unsupported platforms notifications degrade to log output.
package notify

import "log"

// Send delivers a desktop notification with the given title and body.
// Failures are logged rather than returned; a missed notification never
// interrupts the print flow.
func Send(title, body string) {
	if err := send(title, body); err != nil {
		log.Printf("Notification unavailable: %v (%s: %s)", err, title, body)
	}
}
