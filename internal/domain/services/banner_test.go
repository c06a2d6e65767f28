package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/test/builders"
)

type bannerRecorder struct {
	mu     sync.Mutex
	states []entities.BannerState
}

func (r *bannerRecorder) record(s entities.BannerState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *bannerRecorder) all() []entities.BannerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.BannerState(nil), r.states...)
}

func TestMessageBanner(t *testing.T) {
	t.Run("auto hides after the duration", func(t *testing.T) {
		clock := builders.NewManualClock()
		banner := NewMessageBanner(clock, DefaultBannerDuration)

		banner.Show("Hello")
		assert.Equal(t, entities.BannerState{Visible: true, Message: "Hello"}, banner.State())

		clock.Advance(2999 * time.Millisecond)
		assert.True(t, banner.State().Visible)

		clock.Advance(time.Millisecond)
		assert.False(t, banner.State().Visible)
	})

	t.Run("a new message restarts the timer", func(t *testing.T) {
		clock := builders.NewManualClock()
		banner := NewMessageBanner(clock, DefaultBannerDuration)

		banner.Show("first")
		clock.Advance(1000 * time.Millisecond)
		banner.Show("second")

		// the first message's deadline passes without hiding the second one
		clock.Advance(2500 * time.Millisecond)
		assert.Equal(t, entities.BannerState{Visible: true, Message: "second"}, banner.State())

		clock.Advance(500 * time.Millisecond)
		assert.False(t, banner.State().Visible)
		assert.Equal(t, 0, clock.Pending())
	})

	t.Run("notifies every change", func(t *testing.T) {
		clock := builders.NewManualClock()
		banner := NewMessageBanner(clock, time.Second)
		rec := &bannerRecorder{}
		banner.OnChange(rec.record)

		banner.Show("a")
		banner.Show("b")
		clock.Advance(time.Second)

		assert.Equal(t, []entities.BannerState{
			{Visible: true, Message: "a"},
			{Visible: true, Message: "b"},
			{},
		}, rec.all())
	})

	t.Run("hide is immediate and idempotent", func(t *testing.T) {
		clock := builders.NewManualClock()
		banner := NewMessageBanner(clock, time.Second)
		rec := &bannerRecorder{}
		banner.OnChange(rec.record)

		banner.Show("a")
		banner.Hide()
		banner.Hide()
		clock.Advance(time.Second)

		assert.False(t, banner.State().Visible)
		assert.Len(t, rec.all(), 2)
	})

	t.Run("close cancels the pending timer silently", func(t *testing.T) {
		clock := builders.NewManualClock()
		banner := NewMessageBanner(clock, time.Second)
		rec := &bannerRecorder{}
		banner.OnChange(rec.record)

		banner.Show("a")
		banner.Close()
		clock.Advance(time.Second)

		assert.False(t, banner.State().Visible)
		assert.Len(t, rec.all(), 1)
		assert.Equal(t, 0, clock.Pending())
	})

	t.Run("non positive duration uses the default", func(t *testing.T) {
		banner := NewMessageBanner(builders.NewManualClock(), 0)
		assert.Equal(t, DefaultBannerDuration, banner.Duration())
	})
}
