//go:build !(linux || darwin || freebsd || openbsd || netbsd || windows)

package printer

import "errors"

func spool(path string) error {
	return errors.New("printing not implemented on this platform")
}
