//go:build windows

package sound

import "os/exec"

func play() error {
	cmd := exec.Command("powershell", "-NoProfile", "-Command",
		"(New-Object Media.SoundPlayer 'C:\\Windows\\Media\\notify.wav').PlaySync()")
	if err := cmd.Run(); err == nil {
		return nil
	}
	return terminalBell()
}
