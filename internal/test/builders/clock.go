package builders

import "github.com/fredcamaral/vidspot/internal/adapters/secondary/playback"

// ManualClock is a clock whose time only moves on Advance
type ManualClock = playback.VirtualClock

// NewManualClock creates a clock frozen at a fixed instant
func NewManualClock() *ManualClock {
	return playback.NewVirtualClock()
}
