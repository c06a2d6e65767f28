package playback

import (
	"math"
	"sync"
	"time"

	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// SimulatedVideo is a headless playback clock. Time only moves through Advance
// and Seek, which makes replays deterministic.
type SimulatedVideo struct {
	mu       sync.RWMutex
	time     float64
	duration float64
	paused   bool
	plays    int
	pauses   int
}

// NewSimulatedVideo creates a paused video of the given duration in seconds
func NewSimulatedVideo(duration float64) *SimulatedVideo {
	if math.IsNaN(duration) || duration < 0 {
		duration = 0
	}
	return &SimulatedVideo{duration: duration, paused: true}
}

// CurrentTime returns the playhead in seconds
func (v *SimulatedVideo) CurrentTime() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.time
}

// Duration returns the video length in seconds
func (v *SimulatedVideo) Duration() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.duration
}

// Paused reports whether playback is stopped
func (v *SimulatedVideo) Paused() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.paused
}

// Play resumes playback
func (v *SimulatedVideo) Play() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.plays++
	v.paused = false
}

// Pause stops playback
func (v *SimulatedVideo) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pauses++
	v.paused = true
}

// ObserveTime moves the playhead to a time reported by the page
func (v *SimulatedVideo) ObserveTime(t float64) {
	v.Seek(t)
}

// ObserveDuration records the loaded video's length; invalid values become 0
func (v *SimulatedVideo) ObserveDuration(d float64) {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		d = 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.duration = d
}

// ObservePlaying mirrors the page's play or pause state
func (v *SimulatedVideo) ObservePlaying(playing bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paused = !playing
}

// Seek jumps to t, clamped to the media
func (v *SimulatedVideo) Seek(t float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.time = v.clampLocked(t)
}

// Advance moves the playhead by d if playing and returns the new position.
// Reaching the end pauses playback.
func (v *SimulatedVideo) Advance(d time.Duration) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.paused || d <= 0 {
		return v.time
	}
	v.time = v.clampLocked(v.time + d.Seconds())
	if v.duration > 0 && v.time >= v.duration {
		v.paused = true
	}
	return v.time
}

// PlayCalls returns how many Play commands were issued
func (v *SimulatedVideo) PlayCalls() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.plays
}

// PauseCalls returns how many Pause commands were issued
func (v *SimulatedVideo) PauseCalls() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pauses
}

func (v *SimulatedVideo) clampLocked(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if v.duration > 0 && t > v.duration {
		return v.duration
	}
	return t
}

// Ensure SimulatedVideo implements ports.ObservablePlayer
var _ ports.ObservablePlayer = (*SimulatedVideo)(nil)
