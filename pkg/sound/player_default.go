//go:build !linux && !darwin && !windows

package sound

func play() error {
	return terminalBell()
}
