package playback

import (
	"math"
	"sync"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// CommandSink forwards play/pause commands to the video element
type CommandSink func(cmd entities.PlaybackCommand)

// RemoteVideo mirrors a <video> element living in the browser. Its state is fed
// by native media events; Play and Pause update the mirror immediately and are
// forwarded through the command sink.
type RemoteVideo struct {
	mu       sync.RWMutex
	time     float64
	duration float64
	paused   bool
	sink     CommandSink
}

// NewRemoteVideo creates a paused mirror with unknown duration
func NewRemoteVideo() *RemoteVideo {
	return &RemoteVideo{paused: true}
}

// SetCommandSink sets where commands are forwarded; nil drops them
func (v *RemoteVideo) SetCommandSink(sink CommandSink) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sink = sink
}

// CurrentTime returns the last reported playback position
func (v *RemoteVideo) CurrentTime() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.time
}

// Duration returns the last reported duration, 0 while unknown
func (v *RemoteVideo) Duration() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.duration
}

// Paused reports whether playback is paused
func (v *RemoteVideo) Paused() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.paused
}

// Play asks the element to resume
func (v *RemoteVideo) Play() {
	v.command(entities.PlaybackCommandPlay, false)
}

// Pause asks the element to pause
func (v *RemoteVideo) Pause() {
	v.command(entities.PlaybackCommandPause, true)
}

// ObserveTime records a timeupdate
func (v *RemoteVideo) ObserveTime(t float64) {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.time = t
}

// ObserveDuration records a durationchange; NaN and infinite durations count as unknown
func (v *RemoteVideo) ObserveDuration(d float64) {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		d = 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.duration = d
}

// ObservePlaying records a native play or pause event
func (v *RemoteVideo) ObservePlaying(playing bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paused = !playing
}

// command updates the mirror and forwards cmd outside the lock
func (v *RemoteVideo) command(cmd entities.PlaybackCommand, paused bool) {
	v.mu.Lock()
	v.paused = paused
	sink := v.sink
	v.mu.Unlock()

	if sink != nil {
		sink(cmd)
	}
}

// Ensure RemoteVideo implements ports.ObservablePlayer
var _ ports.ObservablePlayer = (*RemoteVideo)(nil)
