package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// IDSet is a set of hotspot ids
type IDSet map[string]struct{}

// NewIDSet creates a set holding ids
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Clone copies the set
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the ids in lexical order
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Evaluation is the outcome of one visibility pass
type Evaluation struct {
	// Active holds the ids inside their window, in store order
	Active []string
	// Interacted is the previous interacted set restricted to Active
	Interacted IDSet
	// Blocking holds the active auto-pause hotspots not yet interacted with
	Blocking []string
	// PauseRequired is true iff Blocking is not empty
	PauseRequired bool
}

// IsActive reports whether id is in the active set
func (e Evaluation) IsActive(id string) bool {
	for _, active := range e.Active {
		if active == id {
			return true
		}
	}
	return false
}

// Evaluate computes the active set, drops interaction state of hotspots that left
// their window, and then decides whether playback must be paused.
func Evaluate(hotspots []entities.Hotspot, currentTime float64, previous IDSet) Evaluation {
	ev := Evaluation{
		Active:     make([]string, 0, len(hotspots)),
		Interacted: make(IDSet),
	}

	active := make(IDSet, len(hotspots))
	for _, h := range hotspots {
		if h.IsActiveAt(currentTime) {
			ev.Active = append(ev.Active, h.ID)
			active.Add(h.ID)
		}
	}

	// Reconcile before the pause check so a stale flag from an earlier
	// activation cannot satisfy the current one.
	for id := range previous {
		if active.Has(id) {
			ev.Interacted.Add(id)
		}
	}

	for _, h := range hotspots {
		if active.Has(h.ID) && h.AutoPause && !ev.Interacted.Has(h.ID) {
			ev.Blocking = append(ev.Blocking, h.ID)
		}
	}
	ev.PauseRequired = len(ev.Blocking) > 0

	return ev
}

// VisibilityEngine keeps the interacted set across ticks and pauses playback when
// an uninteracted auto-pause hotspot becomes active. It never resumes playback.
type VisibilityEngine struct {
	mu         sync.Mutex
	interacted IDSet
	// latched is the blocking set the last pause was issued for; "" when none
	latched string
	last    Evaluation
}

// NewVisibilityEngine creates an engine with no interaction state
func NewVisibilityEngine() *VisibilityEngine {
	return &VisibilityEngine{interacted: make(IDSet)}
}

// Tick evaluates the hotspots at currentTime. Pause is issued once per distinct
// blocking set while the player is playing; repeated ticks with the same blocking
// set never pause again, so a user who resumes manually is not fought.
func (e *VisibilityEngine) Tick(hotspots []entities.Hotspot, currentTime float64, player ports.Player) Evaluation {
	e.mu.Lock()
	defer e.mu.Unlock()

	ev := Evaluate(hotspots, currentTime, e.interacted)
	e.interacted = ev.Interacted.Clone()
	e.last = ev

	if !ev.PauseRequired {
		e.latched = ""
		return ev
	}

	key := strings.Join(ev.Blocking, "\x00")
	if key != e.latched && player != nil && !player.Paused() {
		player.Pause()
		e.latched = key
	}

	return ev
}

// MarkInteracted records that the user engaged with a hotspot's CTA
func (e *VisibilityEngine) MarkInteracted(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interacted.Add(id)
}

// IsInteracted reports whether id was interacted with during its current activation
func (e *VisibilityEngine) IsInteracted(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interacted.Has(id)
}

// Interacted returns a copy of the interacted set
func (e *VisibilityEngine) Interacted() IDSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.interacted.Clone()
}

// Last returns the most recent evaluation
func (e *VisibilityEngine) Last() Evaluation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Reset clears all interaction and pause state
func (e *VisibilityEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interacted = make(IDSet)
	e.latched = ""
	e.last = Evaluation{}
}
