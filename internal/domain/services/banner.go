package services

import (
	"sync"
	"time"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// DefaultBannerDuration is how long a message CTA stays visible
const DefaultBannerDuration = 3 * time.Second

// MessageBanner is the transient overlay shown by message CTAs. Showing a new
// message replaces the current one and restarts the auto-hide timer; there is no queue.
type MessageBanner struct {
	mu         sync.Mutex
	clock      ports.Clock
	duration   time.Duration
	state      entities.BannerState
	timer      ports.Timer
	generation uint64
	onChange   func(entities.BannerState)
}

// NewMessageBanner creates a hidden banner
func NewMessageBanner(clock ports.Clock, duration time.Duration) *MessageBanner {
	if clock == nil {
		clock = ports.NewRealClock()
	}
	if duration <= 0 {
		duration = DefaultBannerDuration
	}
	return &MessageBanner{
		clock:    clock,
		duration: duration,
	}
}

// OnChange registers a callback invoked after every visibility or text change.
// It runs without the banner lock held, possibly on a timer goroutine.
func (b *MessageBanner) OnChange(fn func(entities.BannerState)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Show displays message and (re)starts the auto-hide timer
func (b *MessageBanner) Show(message string) {
	b.mu.Lock()
	b.stopTimerLocked()
	b.generation++
	gen := b.generation
	b.state = entities.BannerState{Visible: true, Message: message}
	b.timer = b.clock.AfterFunc(b.duration, func() { b.expire(gen) })
	state, fn := b.state, b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}

// Hide removes the banner immediately
func (b *MessageBanner) Hide() {
	b.mu.Lock()
	if !b.state.Visible {
		b.mu.Unlock()
		return
	}
	b.stopTimerLocked()
	b.generation++
	b.state = entities.BannerState{}
	state, fn := b.state, b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}

// State returns the current banner state
func (b *MessageBanner) State() entities.BannerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Duration returns the auto-hide delay
func (b *MessageBanner) Duration() time.Duration {
	return b.duration
}

// Close cancels a pending auto-hide without notifying
func (b *MessageBanner) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimerLocked()
	b.generation++
	b.state = entities.BannerState{}
}

// expire hides the banner if no newer message replaced the one that armed the timer
func (b *MessageBanner) expire(gen uint64) {
	b.mu.Lock()
	if gen != b.generation || !b.state.Visible {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.state = entities.BannerState{}
	state, fn := b.state, b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}

func (b *MessageBanner) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
