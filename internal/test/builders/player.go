package builders

import (
	"sync"

	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// FakePlayer is an in-memory ports.ObservablePlayer that counts commands
type FakePlayer struct {
	mu       sync.Mutex
	time     float64
	duration float64
	paused   bool
	plays    int
	pauses   int
}

// NewFakePlayer creates a paused player of the given duration
func NewFakePlayer(duration float64) *FakePlayer {
	return &FakePlayer{duration: duration, paused: true}
}

// Playing returns a player already playing at t
func Playing(duration, t float64) *FakePlayer {
	p := NewFakePlayer(duration)
	p.time = t
	p.paused = false
	return p
}

func (p *FakePlayer) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.time
}

func (p *FakePlayer) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *FakePlayer) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *FakePlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays++
	p.paused = false
}

func (p *FakePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses++
	p.paused = true
}

func (p *FakePlayer) ObserveTime(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.time = t
}

func (p *FakePlayer) ObserveDuration(d float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duration = d
}

func (p *FakePlayer) ObservePlaying(playing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !playing
}

// PlayCalls returns how many times Play was called
func (p *FakePlayer) PlayCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays
}

// PauseCalls returns how many times Pause was called
func (p *FakePlayer) PauseCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pauses
}

// RecordingNavigator records every opened URL
type RecordingNavigator struct {
	mu   sync.Mutex
	urls []string
	Err  error
}

// Open records url and returns Err
func (n *RecordingNavigator) Open(url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urls = append(n.urls, url)
	return n.Err
}

// URLs returns the opened URLs in order
func (n *RecordingNavigator) URLs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.urls...)
}

var (
	_ ports.ObservablePlayer = (*FakePlayer)(nil)
	_ ports.Navigator        = (*RecordingNavigator)(nil)
)
