package ports

import (
	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// EditorSession is the single-session editing core: hotspot store, visibility
// engine, gestures and CTA dispatch behind one serialized event surface.
type EditorSession interface {
	// View returns the render model for the current time, device and container
	View() entities.SessionView

	// Snapshot returns a copy of the hotspot set and selection
	Snapshot() entities.StoreSnapshot

	// Subscribe adds a client to receive session events
	Subscribe(clientID string) <-chan entities.SessionEvent

	// Unsubscribe removes a client from session events
	Unsubscribe(clientID string)

	// TimeUpdate feeds a native timeupdate into the engine
	TimeUpdate(t float64)

	// ObserveDuration feeds a durationchange
	ObserveDuration(d float64)

	// ObservePlay feeds a native play event
	ObservePlay()

	// ObservePause feeds a native pause event
	ObservePause()

	// SetContainerSize records the overlay container size in pixels
	SetContainerSize(width, height float64)

	// SetDevice switches the preview device
	SetDevice(d entities.Device)

	// ClickOverlay creates a hotspot at a background click, unless suppressed
	ClickOverlay(p entities.Point) (entities.Hotspot, bool)

	// Drag moves a hotspot's top-left corner to a pixel position
	Drag(id string, p entities.Point) bool

	// BeginResize starts the single system-wide resize gesture
	BeginResize(id string) bool

	// Resize writes a new size in percent, adjusted by the device scale
	Resize(id string, width, height float64) bool

	// EndResize finishes the resize gesture of id
	EndResize(id string)

	// ClickCTA dispatches a CTA of an active hotspot
	ClickCTA(hotspotID, ctaID string) bool

	// AddHotspot adds a hotspot from a draft
	AddHotspot(d entities.HotspotDraft) entities.Hotspot

	// UpdateHotspot shallow-merges a patch
	UpdateHotspot(id string, p entities.HotspotPatch) bool

	// DeleteHotspot removes a hotspot and its CTAs
	DeleteHotspot(id string) bool

	// Select sets the selected hotspot id, "" deselects
	Select(id string)

	// AddCTA appends a CTA to a hotspot
	AddCTA(hotspotID string, d entities.CTADraft) (entities.CTA, bool)

	// UpdateCTA shallow-merges a CTA patch
	UpdateCTA(hotspotID, ctaID string, p entities.CTAPatch) bool

	// DeleteCTA removes a CTA from its hotspot
	DeleteCTA(hotspotID, ctaID string) bool

	// SetTimeField parses an M:SS.CC value into a hotspot time field
	SetTimeField(id string, field entities.TimeField, value string) error

	// Close discards all hotspots and releases session resources
	Close()

	// Closed reports whether Close was called
	Closed() bool
}
