package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// ErrSessionClosed is returned by operations that report errors once the session is closed
var ErrSessionClosed = errors.New("editor session closed")

// subscriberBuffer is the per-client event backlog before events are dropped
const subscriberBuffer = 64

// SessionOptions configures an editor session
type SessionOptions struct {
	Clock          ports.Clock
	Navigator      ports.Navigator
	Logger         ports.Logger
	Device         entities.Device
	BannerDuration time.Duration
	BaseTextWidth  float64
	Defaults       CreationDefaults
	// NewID overrides the hotspot and CTA id source
	NewID func() string
}

// SessionOptionsFromConfig maps editor configuration onto session options
func SessionOptionsFromConfig(cfg entities.EditorConfig) SessionOptions {
	return SessionOptions{
		Device:         cfg.GetDevice(),
		BannerDuration: cfg.GetBannerDuration(),
		BaseTextWidth:  cfg.GetBaseTextWidth(),
		Defaults: CreationDefaults{
			Color:         cfg.GetColor(),
			Opacity:       cfg.GetOpacity(),
			Size:          cfg.GetSize(),
			WindowSeconds: cfg.GetWindow(),
		},
	}
}

// EditorSession serializes every editing and playback event of one video.
// Each event mutates the store first and then re-evaluates visibility, so the
// next view always reflects the latest store state.
type EditorSession struct {
	mu            sync.Mutex
	store         *Store
	engine        *VisibilityEngine
	gestures      *GestureController
	banner        *MessageBanner
	dispatcher    *CTADispatcher
	player        ports.ObservablePlayer
	logger        ports.Logger
	device        entities.Device
	container     entities.Size
	baseTextWidth float64
	closed        bool
	onClose       []func()

	subMu       sync.RWMutex
	subscribers map[string]chan entities.SessionEvent
}

// NewEditorSession creates a session driving player
func NewEditorSession(player ports.ObservablePlayer, opts SessionOptions) *EditorSession {
	if opts.Logger == nil {
		opts.Logger = ports.NopLogger{}
	}
	if !opts.Device.Valid() {
		opts.Device = entities.DeviceDesktop
	}
	if opts.BaseTextWidth <= 0 {
		opts.BaseTextWidth = DefaultBaseTextWidth
	}
	if opts.Defaults == (CreationDefaults{}) {
		opts.Defaults = DefaultCreationDefaults()
	}

	store := NewStore()
	if opts.NewID != nil {
		store = NewStoreWithIDs(opts.NewID)
	}

	engine := NewVisibilityEngine()
	banner := NewMessageBanner(opts.Clock, opts.BannerDuration)

	s := &EditorSession{
		store:         store,
		engine:        engine,
		gestures:      NewGestureController(store, opts.Defaults),
		banner:        banner,
		dispatcher:    NewCTADispatcher(player, opts.Navigator, banner, engine, opts.Logger),
		player:        player,
		logger:        opts.Logger,
		device:        opts.Device,
		baseTextWidth: opts.BaseTextWidth,
		subscribers:   make(map[string]chan entities.SessionEvent),
	}

	banner.OnChange(func(state entities.BannerState) {
		s.Publish(entities.EventTypeBanner, state)
	})

	return s
}

// SetNavigator replaces where url CTAs are opened
func (s *EditorSession) SetNavigator(navigator ports.Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher.SetNavigator(navigator)
}

// TabNavigator opens url CTAs by asking the editor tab to open a new one
func (s *EditorSession) TabNavigator() ports.Navigator {
	return ports.NavigatorFunc(func(url string) error {
		s.Publish(entities.EventTypeNavigate, entities.NavigateEvent{URL: url})
		return nil
	})
}

// OnClose registers a release hook run once when the session closes
func (s *EditorSession) OnClose(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = append(s.onClose, fn)
}

// Banner exposes the message banner
func (s *EditorSession) Banner() *MessageBanner {
	return s.banner
}

// Player returns the playback clock the session drives
func (s *EditorSession) Player() ports.ObservablePlayer {
	return s.player
}

// Subscribe adds a client to receive session events
func (s *EditorSession) Subscribe(clientID string) <-chan entities.SessionEvent {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if old, exists := s.subscribers[clientID]; exists {
		close(old)
	}
	ch := make(chan entities.SessionEvent, subscriberBuffer)
	s.subscribers[clientID] = ch

	return ch
}

// Unsubscribe removes a client from session events
func (s *EditorSession) Unsubscribe(clientID string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if ch, exists := s.subscribers[clientID]; exists {
		close(ch)
		delete(s.subscribers, clientID)
	}
}

// Publish sends an event to every subscriber, dropping it for clients that lag behind
func (s *EditorSession) Publish(eventType entities.SessionEventType, data interface{}) {
	event := entities.NewSessionEvent(eventType, data)

	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for clientID, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			s.logger.Warn("Client %s is slow, skipping %s event", clientID, eventType)
		}
	}
}

// View returns the render model
func (s *EditorSession) View() entities.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Snapshot returns a copy of the store
func (s *EditorSession) Snapshot() entities.StoreSnapshot {
	return s.store.Snapshot()
}

// Interacted reports whether the hotspot's CTA was clicked during its current activation
func (s *EditorSession) Interacted(id string) bool {
	return s.engine.IsInteracted(id)
}

// TimeUpdate feeds a native timeupdate
func (s *EditorSession) TimeUpdate(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.ObserveTime(t)
	s.changedLocked()
}

// ObserveDuration feeds a durationchange
func (s *EditorSession) ObserveDuration(d float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.ObserveDuration(d)
	s.publishStateLocked()
}

// ObservePlay feeds a native play event
func (s *EditorSession) ObservePlay() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.ObservePlaying(true)
	s.changedLocked()
}

// ObservePause feeds a native pause event
func (s *EditorSession) ObservePause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.player.ObservePlaying(false)
	s.publishStateLocked()
}

// Refresh re-evaluates visibility against the player's current time
func (s *EditorSession) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changedLocked()
}

// SetContainerSize records the overlay container size in pixels
func (s *EditorSession) SetContainerSize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.container = entities.Size{Width: width, Height: height}
	s.publishStateLocked()
}

// Container returns the overlay container size
func (s *EditorSession) Container() entities.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.container
}

// SetDevice switches the preview device. Stored hotspots keep their size; only
// hotspots created or resized afterwards pick up the new scale.
func (s *EditorSession) SetDevice(d entities.Device) {
	if !d.Valid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.device = d
	s.publishStateLocked()
}

// Device returns the preview device
func (s *EditorSession) Device() entities.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.device
}

// ClickOverlay creates a hotspot at a background click of the overlay
func (s *EditorSession) ClickOverlay(p entities.Point) (entities.Hotspot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.gestures.CreateAt(p, s.container, s.player.CurrentTime(), s.player.Duration(), s.device)
	if !ok {
		s.logger.Debug("Overlay click at (%.1f, %.1f) did not create a hotspot", p.X, p.Y)
		return entities.Hotspot{}, false
	}
	s.logger.Debug("Created hotspot %s at %s", h.ID, entities.FormatTimecode(h.StartTime))
	s.changedLocked()
	return h, true
}

// Drag moves a hotspot's top-left corner to a pixel position
func (s *EditorSession) Drag(id string, p entities.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.gestures.Drag(id, p, s.container); !ok {
		return false
	}
	s.publishStateLocked()
	return true
}

// DragBy moves a hotspot by a pixel delta
func (s *EditorSession) DragBy(id string, delta entities.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.gestures.DragBy(id, delta, s.container); !ok {
		return false
	}
	s.publishStateLocked()
	return true
}

// BeginResize starts the resize gesture of id
func (s *EditorSession) BeginResize(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.gestures.BeginResize(id)
	if ok {
		s.publishStateLocked()
	}
	return ok
}

// Resize writes a size in percent adjusted by the current device scale
func (s *EditorSession) Resize(id string, width, height float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gestures.Resize(id, width, height, s.device) {
		return false
	}
	s.publishStateLocked()
	return true
}

// EndResize finishes the resize gesture of id
func (s *EditorSession) EndResize(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gestures.EndResize(id)
	s.publishStateLocked()
}

// ClickCTA dispatches a CTA. Hotspots outside their window are not interactive.
func (s *EditorSession) ClickCTA(hotspotID, ctaID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.store.Get(hotspotID)
	if !ok || !h.IsActiveAt(s.player.CurrentTime()) {
		return false
	}
	cta, ok := h.CTAByID(ctaID)
	if !ok {
		return false
	}

	s.logger.Debug("Dispatching %s CTA %s of hotspot %s", cta.Type, cta.ID, h.ID)
	s.dispatcher.Dispatch(h, cta)
	s.changedLocked()
	return true
}

// AddHotspot adds a hotspot from a draft
func (s *EditorSession) AddHotspot(d entities.HotspotDraft) entities.Hotspot {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.store.Add(d)
	s.changedLocked()
	return h
}

// UpdateHotspot shallow-merges a patch into a hotspot
func (s *EditorSession) UpdateHotspot(id string, p entities.HotspotPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Update(id, p) {
		return false
	}
	s.changedLocked()
	return true
}

// DeleteHotspot removes a hotspot and its CTAs
func (s *EditorSession) DeleteHotspot(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.Delete(id) {
		return false
	}
	if s.gestures.ResizingID() == id {
		s.gestures.CancelResize()
	}
	s.changedLocked()
	return true
}

// Select sets the selection; "" deselects
func (s *EditorSession) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Select(id)
	s.publishStateLocked()
}

// AddCTA appends a CTA to a hotspot
func (s *EditorSession) AddCTA(hotspotID string, d entities.CTADraft) (entities.CTA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cta, ok := s.store.AddCTA(hotspotID, d)
	if ok {
		s.publishStateLocked()
	}
	return cta, ok
}

// UpdateCTA shallow-merges a CTA patch
func (s *EditorSession) UpdateCTA(hotspotID, ctaID string, p entities.CTAPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.store.UpdateCTA(hotspotID, ctaID, p)
	if ok {
		s.publishStateLocked()
	}
	return ok
}

// DeleteCTA removes a CTA
func (s *EditorSession) DeleteCTA(hotspotID, ctaID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.store.DeleteCTA(hotspotID, ctaID)
	if ok {
		s.publishStateLocked()
	}
	return ok
}

// SetTimeField parses value as M:SS.CC into the start or end of a hotspot's window.
// Malformed input leaves the stored value unchanged and is reported to the caller.
func (s *EditorSession) SetTimeField(id string, field entities.TimeField, value string) error {
	if s.Closed() {
		return ErrSessionClosed
	}

	seconds, err := entities.ParseTimecode(value)
	if err != nil {
		return err
	}

	var patch entities.HotspotPatch
	switch field {
	case entities.TimeFieldStart:
		patch.StartTime = &seconds
	case entities.TimeFieldEnd:
		patch.EndTime = &seconds
	default:
		return fmt.Errorf("unknown time field %q", field)
	}

	s.UpdateHotspot(id, patch)
	return nil
}

// Close discards every hotspot, runs the release hooks and disconnects subscribers
func (s *EditorSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	hooks := s.onClose
	s.onClose = nil
	s.banner.Close()
	s.store.Reset()
	s.engine.Reset()
	s.gestures.CancelResize()
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	s.Publish(entities.EventTypeSessionClosed, nil)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for clientID, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, clientID)
	}
}

// Closed reports whether Close was called
func (s *EditorSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// changedLocked re-evaluates visibility and pushes the new state
func (s *EditorSession) changedLocked() {
	s.engine.Tick(s.store.Hotspots(), s.player.CurrentTime(), s.player)
	s.publishStateLocked()
}

func (s *EditorSession) publishStateLocked() {
	s.Publish(entities.EventTypeState, s.viewLocked())
}

func (s *EditorSession) viewLocked() entities.SessionView {
	snap := s.store.Snapshot()
	now := s.player.CurrentTime()
	duration := s.player.Duration()
	textScale := ResponsiveTextScale(s.container.Width, s.baseTextWidth)

	view := entities.SessionView{
		Device:      s.device,
		DeviceLabel: s.device.Label(),
		Container:   s.container,
		TextScale:   textScale,
		Playback: entities.PlaybackState{
			CurrentTime: now,
			Duration:    duration,
			Paused:      s.player.Paused(),
		},
		Active:         make([]entities.HotspotView, 0, len(snap.Hotspots)),
		Hotspots:       snap.Hotspots,
		Banner:         s.banner.State(),
		BannerFontSize: BannerFontSize(s.container.Width, s.baseTextWidth),
		Timeline:       TimelineMarkers(snap.Hotspots, duration),
		PauseRequired:  s.engine.Last().PauseRequired,
		Resizing:       s.gestures.Resizing(),
	}

	if selected, ok := snap.Selected(); ok {
		view.Selected = &selected
	}

	for _, h := range snap.Hotspots {
		if !h.IsActiveAt(now) {
			continue
		}
		hv := entities.HotspotView{
			Hotspot:     h,
			Position:    ToPixels(h, s.container.Width, s.container.Height),
			Size:        SizeToPixels(h, s.container.Width, s.container.Height),
			Selected:    snap.SelectedID == h.ID,
			Interacted:  s.engine.IsInteracted(h.ID),
			BorderRound: h.Shape == entities.ShapeCircle,
			Buttons:     make([]entities.CTAButtonView, 0, len(h.CTAs)),
		}
		for _, cta := range h.CTAs {
			hv.Buttons = append(hv.Buttons, buttonView(cta, textScale))
		}
		view.Active = append(view.Active, hv)
	}

	return view
}

func buttonView(cta entities.CTA, textScale float64) entities.CTAButtonView {
	bv := entities.CTAButtonView{
		ID:              cta.ID,
		Type:            cta.Type,
		Label:           cta.Label(),
		Icon:            cta.Icon,
		BackgroundColor: DefaultCTABackgroundColor,
		TextColor:       DefaultCTATextColor,
		FontSizePx:      CTAFontSize(cta.ButtonStyle, textScale),
		Scale:           textScale,
	}
	if cta.ButtonStyle != nil {
		if cta.ButtonStyle.BackgroundColor != "" {
			bv.BackgroundColor = cta.ButtonStyle.BackgroundColor
		}
		if cta.ButtonStyle.TextColor != "" {
			bv.TextColor = cta.ButtonStyle.TextColor
		}
	}
	return bv
}

// Ensure EditorSession implements ports.EditorSession
var _ ports.EditorSession = (*EditorSession)(nil)
