package ports

// Player is the playback clock of the video element. Play and Pause are
// idempotent and are not debounced: the last command wins.
type Player interface {
	// CurrentTime returns the playback position in seconds
	CurrentTime() float64

	// Duration returns the media duration in seconds, 0 while unknown
	Duration() float64

	// Paused reports whether playback is paused
	Paused() bool

	// Play resumes playback
	Play()

	// Pause pauses playback
	Pause()
}

// ObservablePlayer is a Player whose state is fed by native media events
type ObservablePlayer interface {
	Player

	// ObserveTime records a timeupdate
	ObserveTime(t float64)

	// ObserveDuration records a durationchange
	ObserveDuration(d float64)

	// ObservePlaying records a play (true) or pause (false) event
	ObservePlaying(playing bool)
}

// Navigator opens a URL as a new navigation target
type Navigator interface {
	Open(url string) error
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(url string) error

// Open calls f(url)
func (f NavigatorFunc) Open(url string) error {
	return f(url)
}
