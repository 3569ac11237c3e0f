//go:build darwin

package sound

import "os/exec"

func play() error {
	if err := exec.Command("afplay", "/System/Library/Sounds/Glass.aiff").Run(); err == nil {
		return nil
	}
	return terminalBell()
}
