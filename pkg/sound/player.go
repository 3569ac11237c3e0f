// Package sound plays the end-of-stack notification. Each platform
// tries its native audio players in turn and falls back to the
// terminal bell, so a headless box still gets some signal.
package sound

import "fmt"

// PlayCompletion plays the stacking-finished notification.
// Platform-specific implementations are in player_*.go files behind
// build tags.
func PlayCompletion() error {
	return play()
}

// terminalBell is the lowest common denominator fallback.
func terminalBell() error {
	fmt.Print("\a")
	return nil
}
