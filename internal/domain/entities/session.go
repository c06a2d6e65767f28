package entities

import "time"

// SessionEventType identifies what a session event carries
type SessionEventType string

const (
	EventTypeState           SessionEventType = "state"
	EventTypeBanner          SessionEventType = "banner"
	EventTypePlaybackCommand SessionEventType = "playback_command"
	EventTypeNavigate        SessionEventType = "navigate"
	EventTypeSessionClosed   SessionEventType = "session_closed"
)

// SessionEvent is pushed to every subscriber of an editor session
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	Data      interface{}      `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewSessionEvent creates a new session event
func NewSessionEvent(eventType SessionEventType, data interface{}) SessionEvent {
	return SessionEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PlaybackCommand is a play/pause instruction for the video element
type PlaybackCommand string

const (
	PlaybackCommandPlay  PlaybackCommand = "play"
	PlaybackCommandPause PlaybackCommand = "pause"
)

// PlaybackState mirrors the video element
type PlaybackState struct {
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Paused      bool    `json:"paused"`
}

// BannerState is the transient message overlay
type BannerState struct {
	Visible bool   `json:"visible"`
	Message string `json:"message"`
}

// TimelineMarker places a hotspot window on the seek bar, in percent of the duration
type TimelineMarker struct {
	HotspotID string  `json:"hotspotId"`
	Left      float64 `json:"left"`
	Width     float64 `json:"width"`
}

// CTAButtonView is a CTA ready to be painted
type CTAButtonView struct {
	ID              string  `json:"id"`
	Type            CTAType `json:"type"`
	Label           string  `json:"label"`
	Icon            string  `json:"icon,omitempty"`
	BackgroundColor string  `json:"backgroundColor"`
	TextColor       string  `json:"textColor"`
	FontSizePx      float64 `json:"fontSizePx"`
	Scale           float64 `json:"scale"`
}

// HotspotView is an active hotspot mapped onto the current container
type HotspotView struct {
	Hotspot     Hotspot         `json:"hotspot"`
	Position    Point           `json:"position"`
	Size        Size            `json:"size"`
	Selected    bool            `json:"selected"`
	Interacted  bool            `json:"interacted"`
	BorderRound bool            `json:"borderRound"`
	Buttons     []CTAButtonView `json:"buttons"`
}

// SessionView is everything the overlay renderer and editing panel need
type SessionView struct {
	Device         Device           `json:"device"`
	DeviceLabel    string           `json:"deviceLabel"`
	Container      Size             `json:"container"`
	TextScale      float64          `json:"textScale"`
	Playback       PlaybackState    `json:"playback"`
	Active         []HotspotView    `json:"active"`
	Hotspots       []Hotspot        `json:"hotspots"`
	Selected       *Hotspot         `json:"selected,omitempty"`
	Banner         BannerState      `json:"banner"`
	BannerFontSize float64          `json:"bannerFontSize"`
	Timeline       []TimelineMarker `json:"timeline"`
	PauseRequired  bool             `json:"pauseRequired"`
	Resizing       bool             `json:"resizing"`
}

// UploadFile describes a file handed over by the upload collaborator
type UploadFile struct {
	Name     string `json:"name"`
	MIMEType string `json:"type"`
	Size     int64  `json:"size"`
}

// VideoMIMEType is the only accepted upload type
const VideoMIMEType = "video/mp4"

// NavigateEvent asks the UI to open a URL in a new tab
type NavigateEvent struct {
	URL string `json:"url"`
}

// DeviceOption is one entry of the device preview selector
type DeviceOption struct {
	Value    Device
	Label    string
	Selected bool
}

// EditorPage is what the editor shell page is rendered from
type EditorPage struct {
	Title         string
	VideoName     string
	MediaURL      string
	WebSocketPath string
	Devices       []DeviceOption
	AspectRatio   float64
}

// DeviceOptions lists every device with current marked as selected
func DeviceOptions(current Device) []DeviceOption {
	options := make([]DeviceOption, 0, len(Devices))
	for _, d := range Devices {
		options = append(options, DeviceOption{Value: d, Label: d.Label(), Selected: d == current})
	}
	return options
}
