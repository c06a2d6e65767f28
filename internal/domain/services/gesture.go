package services

import (
	"math"
	"sync"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// CreationDefaults are the style and timing of a hotspot created by clicking the overlay
type CreationDefaults struct {
	Color         string
	Opacity       float64
	Size          float64
	WindowSeconds float64
}

// DefaultCreationDefaults returns the editor's built in creation defaults
func DefaultCreationDefaults() CreationDefaults {
	return CreationDefaults{
		Color:         "#FF0000",
		Opacity:       0.5,
		Size:          10,
		WindowSeconds: 5,
	}
}

// GestureController reconciles pointer gestures in pixels with the percent based
// store. Clamping happens here, at the write boundary; the store trusts its callers.
type GestureController struct {
	mu       sync.Mutex
	store    *Store
	defaults CreationDefaults
	resizing string
}

// NewGestureController creates a controller writing to store
func NewGestureController(store *Store, defaults CreationDefaults) *GestureController {
	return &GestureController{
		store:    store,
		defaults: defaults,
	}
}

// Drag moves the hotspot's top-left corner to a pixel position, clamped to the container
func (g *GestureController) Drag(id string, p entities.Point, container entities.Size) (entities.Point, bool) {
	pct := ToPercent(p.X, p.Y, container.Width, container.Height)
	pct.X = ClampPercent(pct.X)
	pct.Y = ClampPercent(pct.Y)

	if !g.store.Update(id, entities.HotspotPatch{X: &pct.X, Y: &pct.Y}) {
		return entities.Point{}, false
	}
	return pct, true
}

// DragBy moves a hotspot by a pixel delta relative to its stored position
func (g *GestureController) DragBy(id string, delta entities.Point, container entities.Size) (entities.Point, bool) {
	h, ok := g.store.Get(id)
	if !ok {
		return entities.Point{}, false
	}
	origin := ToPixels(h, container.Width, container.Height)
	return g.Drag(id, entities.Point{X: origin.X + delta.X, Y: origin.Y + delta.Y}, container)
}

// BeginResize claims the single resize gesture; it fails while another hotspot holds it
func (g *GestureController) BeginResize(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resizing != "" && g.resizing != id {
		return false
	}
	if _, ok := g.store.Get(id); !ok {
		return false
	}
	g.resizing = id
	return true
}

// Resize writes width and height in percent multiplied by the device scale and
// clamped to [0,100]. While a gesture is active only its hotspot may be resized.
func (g *GestureController) Resize(id string, width, height float64, device entities.Device) bool {
	g.mu.Lock()
	busy := g.resizing != "" && g.resizing != id
	g.mu.Unlock()
	if busy {
		return false
	}

	scale := DeviceScale(device)
	w, h := ClampPercent(width*scale), ClampPercent(height*scale)
	return g.store.Update(id, entities.HotspotPatch{Width: &w, Height: &h})
}

// EndResize releases the gesture if id holds it
func (g *GestureController) EndResize(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resizing == id {
		g.resizing = ""
	}
}

// CancelResize releases any gesture
func (g *GestureController) CancelResize() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resizing = ""
}

// Resizing reports whether a resize gesture is active
func (g *GestureController) Resizing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resizing != ""
}

// ResizingID returns the hotspot holding the resize gesture, or ""
func (g *GestureController) ResizingID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resizing
}

// CreateAt adds a hotspot whose top-left corner is at a background click. Creation is
// suppressed during a resize gesture and when the click lands on an active hotspot.
// The window starts at now and lasts the default length, cut at the media duration.
func (g *GestureController) CreateAt(p entities.Point, container entities.Size, now, duration float64, device entities.Device) (entities.Hotspot, bool) {
	if g.Resizing() {
		return entities.Hotspot{}, false
	}
	if _, hit := HitTest(g.store.Hotspots(), now, p, container); hit {
		return entities.Hotspot{}, false
	}

	if math.IsNaN(duration) || duration < 0 {
		duration = 0
	}
	pct := ToPercent(p.X, p.Y, container.Width, container.Height)
	size := g.defaults.Size * DeviceScale(device)
	autoPause, keepPlaying := true, false

	h := g.store.Add(entities.HotspotDraft{
		X:           pct.X,
		Y:           pct.Y,
		Width:       size,
		Height:      size,
		Shape:       entities.ShapeRectangle,
		Color:       g.defaults.Color,
		Opacity:     g.defaults.Opacity,
		StartTime:   now,
		EndTime:     math.Min(duration, now+g.defaults.WindowSeconds),
		AutoPause:   &autoPause,
		KeepPlaying: &keepPlaying,
	})
	return h, true
}

// HitTest returns the topmost active hotspot under a pixel point
func HitTest(hotspots []entities.Hotspot, t float64, p entities.Point, container entities.Size) (entities.Hotspot, bool) {
	for i := len(hotspots) - 1; i >= 0; i-- {
		h := hotspots[i]
		if h.IsActiveAt(t) && ContainsPoint(h, p, container.Width, container.Height) {
			return h, true
		}
	}
	return entities.Hotspot{}, false
}
