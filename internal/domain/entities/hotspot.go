package entities

import (
	"strconv"
	"strings"
)

// Shape is the outline a hotspot is drawn with
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
)

// Valid reports whether the shape is one of the known outlines
func (s Shape) Valid() bool {
	return s == ShapeRectangle || s == ShapeCircle
}

// CTAType identifies the behavior triggered when a CTA is clicked
type CTAType string

const (
	CTATypeURL     CTAType = "url"
	CTATypeMessage CTAType = "message"
	CTATypePause   CTAType = "pause"
)

// Valid reports whether the CTA type is known
func (t CTAType) Valid() bool {
	switch t {
	case CTATypeURL, CTATypeMessage, CTATypePause:
		return true
	default:
		return false
	}
}

// FontSize is one of the fixed button text sizes offered by the editor
type FontSize string

const (
	FontSizeSmall      FontSize = "12px"
	FontSizeMedium     FontSize = "14px"
	FontSizeLarge      FontSize = "16px"
	FontSizeExtraLarge FontSize = "18px"
)

// DefaultFontSizePx is used when a button has no usable font size
const DefaultFontSizePx = 14

// Valid reports whether the font size is one of the offered sizes
func (f FontSize) Valid() bool {
	switch f {
	case FontSizeSmall, FontSizeMedium, FontSizeLarge, FontSizeExtraLarge:
		return true
	default:
		return false
	}
}

// Pixels returns the leading integer pixel value, or DefaultFontSizePx
func (f FontSize) Pixels() int {
	digits := strings.TrimSpace(string(f))
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	if end == 0 {
		return DefaultFontSizePx
	}
	px, err := strconv.Atoi(digits[:end])
	if err != nil || px <= 0 {
		return DefaultFontSizePx
	}
	return px
}

// ButtonStyle controls how a CTA button is painted
type ButtonStyle struct {
	BackgroundColor string   `json:"backgroundColor" yaml:"background_color"`
	TextColor       string   `json:"textColor" yaml:"text_color"`
	FontSize        FontSize `json:"fontSize" yaml:"font_size"`
}

// CTA is a call-to-action attached to exactly one hotspot
type CTA struct {
	ID          string       `json:"id" yaml:"id"`
	Type        CTAType      `json:"type" yaml:"type"`
	Content     string       `json:"content" yaml:"content"`
	ButtonText  string       `json:"buttonText,omitempty" yaml:"button_text"`
	ButtonStyle *ButtonStyle `json:"buttonStyle,omitempty" yaml:"button_style"`
	Icon        string       `json:"icon,omitempty" yaml:"icon"`
}

// Label returns the button text, falling back to the content
func (c CTA) Label() string {
	if c.ButtonText != "" {
		return c.ButtonText
	}
	return c.Content
}

// Clone returns a copy that shares no memory with c
func (c CTA) Clone() CTA {
	if c.ButtonStyle != nil {
		style := *c.ButtonStyle
		c.ButtonStyle = &style
	}
	return c
}

// Hotspot is a timed, positioned interactive region overlaid on the video.
// Position and size are percentages of the overlay container; times are seconds.
type Hotspot struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Shape       Shape   `json:"shape"`
	Color       string  `json:"color"`
	Opacity     float64 `json:"opacity"`
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`
	CTAs        []CTA   `json:"ctas"`
	AutoPause   bool    `json:"autoPause"`
	KeepPlaying bool    `json:"keepPlaying"`
}

// IsActiveAt reports whether t falls inside the hotspot's window, both ends inclusive.
// An inverted window is never active.
func (h Hotspot) IsActiveAt(t float64) bool {
	return h.StartTime <= t && t <= h.EndTime
}

// CTAByID finds a CTA of this hotspot
func (h Hotspot) CTAByID(id string) (CTA, bool) {
	for _, cta := range h.CTAs {
		if cta.ID == id {
			return cta, true
		}
	}
	return CTA{}, false
}

// Clone returns a deep copy of the hotspot
func (h Hotspot) Clone() Hotspot {
	if h.CTAs != nil {
		ctas := make([]CTA, len(h.CTAs))
		for i, cta := range h.CTAs {
			ctas[i] = cta.Clone()
		}
		h.CTAs = ctas
	}
	return h
}

// HotspotDraft carries the caller supplied fields of a new hotspot.
// Nil AutoPause and KeepPlaying fall back to true and false.
type HotspotDraft struct {
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Width       float64 `json:"width" yaml:"width"`
	Height      float64 `json:"height" yaml:"height"`
	Shape       Shape   `json:"shape" yaml:"shape"`
	Color       string  `json:"color" yaml:"color"`
	Opacity     float64 `json:"opacity" yaml:"opacity"`
	StartTime   float64 `json:"startTime" yaml:"start_time"`
	EndTime     float64 `json:"endTime" yaml:"end_time"`
	CTAs        []CTA   `json:"ctas" yaml:"ctas"`
	AutoPause   *bool   `json:"autoPause,omitempty" yaml:"auto_pause"`
	KeepPlaying *bool   `json:"keepPlaying,omitempty" yaml:"keep_playing"`
}

// HotspotPatch is a shallow update; nil fields are left untouched
type HotspotPatch struct {
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	Shape       *Shape   `json:"shape,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
	StartTime   *float64 `json:"startTime,omitempty"`
	EndTime     *float64 `json:"endTime,omitempty"`
	CTAs        *[]CTA   `json:"ctas,omitempty"`
	AutoPause   *bool    `json:"autoPause,omitempty"`
	KeepPlaying *bool    `json:"keepPlaying,omitempty"`
}

// Apply merges the patch into h
func (p HotspotPatch) Apply(h *Hotspot) {
	if p.X != nil {
		h.X = *p.X
	}
	if p.Y != nil {
		h.Y = *p.Y
	}
	if p.Width != nil {
		h.Width = *p.Width
	}
	if p.Height != nil {
		h.Height = *p.Height
	}
	if p.Shape != nil {
		h.Shape = *p.Shape
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
	if p.Opacity != nil {
		h.Opacity = *p.Opacity
	}
	if p.StartTime != nil {
		h.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		h.EndTime = *p.EndTime
	}
	if p.CTAs != nil {
		ctas := make([]CTA, len(*p.CTAs))
		for i, cta := range *p.CTAs {
			ctas[i] = cta.Clone()
		}
		h.CTAs = ctas
	}
	if p.AutoPause != nil {
		h.AutoPause = *p.AutoPause
	}
	if p.KeepPlaying != nil {
		h.KeepPlaying = *p.KeepPlaying
	}
}

// IsEmpty returns true if the patch changes nothing
func (p HotspotPatch) IsEmpty() bool {
	return p == HotspotPatch{}
}

// CTADraft carries the fields of a new CTA; zero values take editor defaults
type CTADraft struct {
	Type        CTAType      `json:"type" yaml:"type"`
	Content     string       `json:"content" yaml:"content"`
	ButtonText  string       `json:"buttonText,omitempty" yaml:"button_text"`
	ButtonStyle *ButtonStyle `json:"buttonStyle,omitempty" yaml:"button_style"`
	Icon        string       `json:"icon,omitempty" yaml:"icon"`
}

// ButtonStylePatch updates individual style fields
type ButtonStylePatch struct {
	BackgroundColor *string   `json:"backgroundColor,omitempty"`
	TextColor       *string   `json:"textColor,omitempty"`
	FontSize        *FontSize `json:"fontSize,omitempty"`
}

// CTAPatch is a shallow update of a CTA; the button style merges field by field
type CTAPatch struct {
	Type        *CTAType          `json:"type,omitempty"`
	Content     *string           `json:"content,omitempty"`
	ButtonText  *string           `json:"buttonText,omitempty"`
	ButtonStyle *ButtonStylePatch `json:"buttonStyle,omitempty"`
	Icon        *string           `json:"icon,omitempty"`
}

// Apply merges the patch into c
func (p CTAPatch) Apply(c *CTA) {
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.ButtonText != nil {
		c.ButtonText = *p.ButtonText
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.ButtonStyle != nil {
		style := ButtonStyle{}
		if c.ButtonStyle != nil {
			style = *c.ButtonStyle
		}
		if p.ButtonStyle.BackgroundColor != nil {
			style.BackgroundColor = *p.ButtonStyle.BackgroundColor
		}
		if p.ButtonStyle.TextColor != nil {
			style.TextColor = *p.ButtonStyle.TextColor
		}
		if p.ButtonStyle.FontSize != nil {
			style.FontSize = *p.ButtonStyle.FontSize
		}
		c.ButtonStyle = &style
	}
}

// StoreSnapshot is a point-in-time copy of the hotspot set and selection
type StoreSnapshot struct {
	Hotspots   []Hotspot `json:"hotspots"`
	SelectedID string    `json:"selectedHotspot,omitempty"`
}

// Selected returns the selected hotspot if the selected id is still present
func (s StoreSnapshot) Selected() (Hotspot, bool) {
	if s.SelectedID == "" {
		return Hotspot{}, false
	}
	for _, h := range s.Hotspots {
		if h.ID == s.SelectedID {
			return h, true
		}
	}
	return Hotspot{}, false
}

// Ptr returns a pointer to v, handy for building patches
func Ptr[T any](v T) *T {
	return &v
}
