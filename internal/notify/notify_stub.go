//go:build !linux

package notify

import "errors"

func send(title, body string) error {
	return errors.New("desktop notifications not implemented on this platform")
}
