package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// Default values of a freshly added CTA
const (
	DefaultCTAText            = "Click me!"
	DefaultCTABackgroundColor = "#ffffff"
	DefaultCTATextColor       = "#000000"
)

// Store is the single source of truth for hotspots and the selection.
// Every operation is total: unknown ids are silent no-ops.
type Store struct {
	mu       sync.RWMutex
	hotspots []entities.Hotspot
	selected string
	newID    func() string
}

// NewStore creates an empty store that assigns random UUIDs
func NewStore() *Store {
	return NewStoreWithIDs(uuid.NewString)
}

// NewStoreWithIDs creates an empty store with a custom id source
func NewStoreWithIDs(newID func() string) *Store {
	return &Store{newID: newID}
}

// Add appends a hotspot with a fresh id. AutoPause defaults to true and
// KeepPlaying to false unless the draft sets them.
func (s *Store) Add(d entities.HotspotDraft) entities.Hotspot {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := entities.Hotspot{
		ID:          s.uniqueIDLocked(),
		X:           d.X,
		Y:           d.Y,
		Width:       d.Width,
		Height:      d.Height,
		Shape:       d.Shape,
		Color:       d.Color,
		Opacity:     d.Opacity,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		CTAs:        make([]entities.CTA, 0, len(d.CTAs)),
		AutoPause:   true,
		KeepPlaying: false,
	}
	if d.AutoPause != nil {
		h.AutoPause = *d.AutoPause
	}
	if d.KeepPlaying != nil {
		h.KeepPlaying = *d.KeepPlaying
	}
	h.CTAs = s.uniqueCTAs(d.CTAs)

	s.hotspots = append(s.hotspots, h)
	return h.Clone()
}

// Update shallow-merges patch into the hotspot with the given id. A replacement
// CTA list gets fresh ids for empty or repeated ones.
func (s *Store) Update(id string, patch entities.HotspotPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	if patch.CTAs != nil {
		ctas := s.uniqueCTAs(*patch.CTAs)
		patch.CTAs = &ctas
	}
	patch.Apply(&s.hotspots[i])
	return true
}

// Delete removes the hotspot and its CTAs, clearing the selection if it pointed at it
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.hotspots = append(s.hotspots[:i:i], s.hotspots[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// Select sets the selection whether or not id exists; "" deselects
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// ClearSelection deselects
func (s *Store) ClearSelection() {
	s.Select("")
}

// Get returns a copy of a hotspot
func (s *Store) Get(id string) (entities.Hotspot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return entities.Hotspot{}, false
	}
	return s.hotspots[i].Clone(), true
}

// Hotspots returns a copy of all hotspots in insertion order
func (s *Store) Hotspots() []entities.Hotspot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Snapshot returns a copy of the hotspots and the selected id
func (s *Store) Snapshot() entities.StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entities.StoreSnapshot{
		Hotspots:   s.copyLocked(),
		SelectedID: s.selected,
	}
}

// SelectedHotspot returns the selected hotspot only if it is present
func (s *Store) SelectedHotspot() (entities.Hotspot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(s.selected)
	if s.selected == "" || i < 0 {
		return entities.Hotspot{}, false
	}
	return s.hotspots[i].Clone(), true
}

// Len returns the number of hotspots
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hotspots)
}

// Reset discards every hotspot and the selection
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotspots = nil
	s.selected = ""
}

// AddCTA appends a CTA to a hotspot. Zero draft fields take the editor defaults
// (a message CTA reading "Click me!" in black on white, medium size).
func (s *Store) AddCTA(hotspotID string, d entities.CTADraft) (entities.CTA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(hotspotID)
	if i < 0 {
		return entities.CTA{}, false
	}

	cta := entities.CTA{
		Type:        d.Type,
		Content:     d.Content,
		ButtonText:  d.ButtonText,
		ButtonStyle: d.ButtonStyle,
		Icon:        d.Icon,
	}
	if cta.Type == "" {
		cta.Type = entities.CTATypeMessage
	}
	if cta.Content == "" && cta.ButtonText == "" {
		cta.Content = DefaultCTAText
		cta.ButtonText = DefaultCTAText
	}
	if cta.ButtonStyle == nil {
		cta.ButtonStyle = &entities.ButtonStyle{
			BackgroundColor: DefaultCTABackgroundColor,
			TextColor:       DefaultCTATextColor,
			FontSize:        entities.FontSizeMedium,
		}
	}
	cta = cta.Clone()
	cta.ID = s.uniqueCTAID(s.hotspots[i].CTAs)

	s.hotspots[i].CTAs = append(s.hotspots[i].CTAs, cta)
	return cta.Clone(), true
}

// UpdateCTA shallow-merges a patch into one CTA of a hotspot
func (s *Store) UpdateCTA(hotspotID, ctaID string, patch entities.CTAPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(hotspotID)
	if i < 0 {
		return false
	}
	ctas := s.hotspots[i].CTAs
	for j := range ctas {
		if ctas[j].ID == ctaID {
			patch.Apply(&ctas[j])
			return true
		}
	}
	return false
}

// DeleteCTA removes one CTA of a hotspot
func (s *Store) DeleteCTA(hotspotID, ctaID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(hotspotID)
	if i < 0 || !hasCTA(s.hotspots[i].CTAs, ctaID) {
		return false
	}

	old := s.hotspots[i].CTAs
	ctas := make([]entities.CTA, 0, len(old)-1)
	for _, cta := range old {
		if cta.ID != ctaID {
			ctas = append(ctas, cta)
		}
	}
	s.hotspots[i].CTAs = ctas
	return true
}

// uniqueCTAs clones ctas, giving empty or repeated ids fresh ones
func (s *Store) uniqueCTAs(in []entities.CTA) []entities.CTA {
	out := make([]entities.CTA, 0, len(in))
	for _, cta := range in {
		cta = cta.Clone()
		if cta.ID == "" || hasCTA(out, cta.ID) {
			cta.ID = s.uniqueCTAID(out)
		}
		out = append(out, cta)
	}
	return out
}

// uniqueCTAID returns a fresh id not used in ctas
func (s *Store) uniqueCTAID(ctas []entities.CTA) string {
	for {
		id := s.newID()
		if id != "" && !hasCTA(ctas, id) {
			return id
		}
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.hotspots {
		if s.hotspots[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueIDLocked retries on the (practically impossible) collision with a live id
func (s *Store) uniqueIDLocked() string {
	for {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id
		}
	}
}

func (s *Store) copyLocked() []entities.Hotspot {
	out := make([]entities.Hotspot, len(s.hotspots))
	for i, h := range s.hotspots {
		out[i] = h.Clone()
	}
	return out
}

func hasCTA(ctas []entities.CTA, id string) bool {
	for _, cta := range ctas {
		if cta.ID == id {
			return true
		}
	}
	return false
}
