package builders

import (
	"fmt"
	"sync"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// HotspotBuilder helps build Hotspot entities for testing
type HotspotBuilder struct {
	hotspot entities.Hotspot
}

// NewHotspotBuilder creates a builder for a 10% square active from 0s to 5s
func NewHotspotBuilder() *HotspotBuilder {
	return &HotspotBuilder{
		hotspot: entities.Hotspot{
			ID:        "hotspot-1",
			X:         10,
			Y:         10,
			Width:     10,
			Height:    10,
			Shape:     entities.ShapeRectangle,
			Color:     "#FF0000",
			Opacity:   0.5,
			StartTime: 0,
			EndTime:   5,
			CTAs:      []entities.CTA{},
			AutoPause: true,
		},
	}
}

// WithID sets the hotspot id
func (b *HotspotBuilder) WithID(id string) *HotspotBuilder {
	b.hotspot.ID = id
	return b
}

// WithPosition sets the top-left corner in percent
func (b *HotspotBuilder) WithPosition(x, y float64) *HotspotBuilder {
	b.hotspot.X = x
	b.hotspot.Y = y
	return b
}

// WithSize sets width and height in percent
func (b *HotspotBuilder) WithSize(width, height float64) *HotspotBuilder {
	b.hotspot.Width = width
	b.hotspot.Height = height
	return b
}

// WithShape sets the shape
func (b *HotspotBuilder) WithShape(shape entities.Shape) *HotspotBuilder {
	b.hotspot.Shape = shape
	return b
}

// WithWindow sets the activation window in seconds
func (b *HotspotBuilder) WithWindow(start, end float64) *HotspotBuilder {
	b.hotspot.StartTime = start
	b.hotspot.EndTime = end
	return b
}

// WithAutoPause sets the auto-pause flag
func (b *HotspotBuilder) WithAutoPause(autoPause bool) *HotspotBuilder {
	b.hotspot.AutoPause = autoPause
	return b
}

// WithKeepPlaying sets the keep-playing flag
func (b *HotspotBuilder) WithKeepPlaying(keepPlaying bool) *HotspotBuilder {
	b.hotspot.KeepPlaying = keepPlaying
	return b
}

// WithCTA appends a CTA
func (b *HotspotBuilder) WithCTA(cta entities.CTA) *HotspotBuilder {
	b.hotspot.CTAs = append(b.hotspot.CTAs, cta)
	return b
}

// Build returns the hotspot
func (b *HotspotBuilder) Build() entities.Hotspot {
	return b.hotspot.Clone()
}

// Draft returns the hotspot as a store draft
func (b *HotspotBuilder) Draft() entities.HotspotDraft {
	h := b.hotspot.Clone()
	return entities.HotspotDraft{
		X:           h.X,
		Y:           h.Y,
		Width:       h.Width,
		Height:      h.Height,
		Shape:       h.Shape,
		Color:       h.Color,
		Opacity:     h.Opacity,
		StartTime:   h.StartTime,
		EndTime:     h.EndTime,
		CTAs:        h.CTAs,
		AutoPause:   entities.Ptr(h.AutoPause),
		KeepPlaying: entities.Ptr(h.KeepPlaying),
	}
}

// CTABuilder helps build CTA entities for testing
type CTABuilder struct {
	cta entities.CTA
}

// NewCTABuilder creates a builder for a message CTA
func NewCTABuilder() *CTABuilder {
	return &CTABuilder{
		cta: entities.CTA{
			ID:      "cta-1",
			Type:    entities.CTATypeMessage,
			Content: "Hello",
		},
	}
}

// WithID sets the CTA id
func (b *CTABuilder) WithID(id string) *CTABuilder {
	b.cta.ID = id
	return b
}

// WithType sets the CTA type
func (b *CTABuilder) WithType(t entities.CTAType) *CTABuilder {
	b.cta.Type = t
	return b
}

// WithContent sets the URL or message
func (b *CTABuilder) WithContent(content string) *CTABuilder {
	b.cta.Content = content
	return b
}

// WithButtonText sets the button label
func (b *CTABuilder) WithButtonText(text string) *CTABuilder {
	b.cta.ButtonText = text
	return b
}

// WithFontSize sets the button font size
func (b *CTABuilder) WithFontSize(size entities.FontSize) *CTABuilder {
	if b.cta.ButtonStyle == nil {
		b.cta.ButtonStyle = &entities.ButtonStyle{}
	}
	b.cta.ButtonStyle.FontSize = size
	return b
}

// Build returns the CTA
func (b *CTABuilder) Build() entities.CTA {
	return b.cta.Clone()
}

// URLCTA returns a url CTA
func URLCTA(id, url string) entities.CTA {
	return NewCTABuilder().WithID(id).WithType(entities.CTATypeURL).WithContent(url).Build()
}

// MessageCTA returns a message CTA
func MessageCTA(id, message string) entities.CTA {
	return NewCTABuilder().WithID(id).WithContent(message).Build()
}

// PauseCTA returns a pause CTA
func PauseCTA(id string) entities.CTA {
	return NewCTABuilder().WithID(id).WithType(entities.CTATypePause).WithContent("Pause").Build()
}

// SequentialIDs returns an id source yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
