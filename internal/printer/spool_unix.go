//go:build linux || darwin || freebsd || openbsd || netbsd

package printer

import (
	"fmt"
	"os/exec"
)

func spool(path string) error {
	if lp, err := exec.LookPath("lp"); err == nil {
		return exec.Command(lp, path).Run()
	}
	if lpr, err := exec.LookPath("lpr"); err == nil {
		return exec.Command(lpr, path).Run()
	}
	return fmt.Errorf("no print spooler found (tried lp, lpr)")
}
