//go:build linux

package sound

import "os/exec"

// play tries PulseAudio then ALSA with the stock freedesktop
// completion sound, then gives up and rings the bell.
func play() error {
	players := []struct {
		cmd  string
		args []string
	}{
		{"paplay", []string{"/usr/share/sounds/freedesktop/stereo/complete.oga"}},
		{"aplay", []string{"/usr/share/sounds/freedesktop/stereo/complete.wav"}},
	}

	for _, p := range players {
		if err := exec.Command(p.cmd, p.args...).Run(); err == nil {
			return nil
		}
	}

	return terminalBell()
}
