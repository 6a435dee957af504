//go:build windows

package printer

import (
	"fmt"
	"os/exec"
)

func spool(path string) error {
	// Shell out to the default image handler's print verb.
	script := fmt.Sprintf("Start-Process -FilePath '%s' -Verb Print -Wait", path)
	return exec.Command("powershell", "-NoProfile", "-Command", script).Run()
}
