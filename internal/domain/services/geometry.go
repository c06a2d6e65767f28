package services

import (
	"math"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// DefaultBaseTextWidth is the container width at which CTA and banner text render unscaled
const DefaultBaseTextWidth = 1280.0

const (
	minTextScale     = 0.5
	maxTextScale     = 1.5
	minCTAFontPx     = 12.0
	maxCTAFontPx     = 24.0
	bannerBaseFontPx = 16.0
	minBannerFontPx  = 14.0
	maxBannerFontPx  = 20.0
)

// ToPixels maps a hotspot's top-left corner from percent to container pixels
func ToPixels(h entities.Hotspot, containerWidth, containerHeight float64) entities.Point {
	return entities.Point{
		X: h.X / 100 * containerWidth,
		Y: h.Y / 100 * containerHeight,
	}
}

// SizeToPixels maps a hotspot's size from percent to container pixels
func SizeToPixels(h entities.Hotspot, containerWidth, containerHeight float64) entities.Size {
	return entities.Size{
		Width:  h.Width / 100 * containerWidth,
		Height: h.Height / 100 * containerHeight,
	}
}

// ToPercent maps a pixel position back to percent of the container.
// A zero-sized axis maps to 0.
func ToPercent(xPx, yPx, containerWidth, containerHeight float64) entities.Point {
	return entities.Point{
		X: ratio(xPx, containerWidth) * 100,
		Y: ratio(yPx, containerHeight) * 100,
	}
}

// DeviceScale is the factor applied to hotspot dimensions when they are created
// or resized under a preview device. Stored hotspots are never rescaled.
func DeviceScale(d entities.Device) float64 {
	switch d {
	case entities.DeviceTablet:
		return 0.6
	case entities.DeviceMobile:
		return 0.3
	default:
		return 1
	}
}

// ResponsiveTextScale keeps overlay text legible as the player is resized
func ResponsiveTextScale(containerWidth, baseWidth float64) float64 {
	if baseWidth <= 0 {
		baseWidth = DefaultBaseTextWidth
	}
	return Clamp(ratio(containerWidth, baseWidth), minTextScale, maxTextScale)
}

// CTAFontSize is the button font size in pixels for a given text scale
func CTAFontSize(style *entities.ButtonStyle, textScale float64) float64 {
	base := float64(entities.DefaultFontSizePx)
	if style != nil {
		base = float64(style.FontSize.Pixels())
	}
	return Clamp(base*textScale, minCTAFontPx, maxCTAFontPx)
}

// BannerFontSize is the message banner font size in pixels for a container width
func BannerFontSize(containerWidth, baseWidth float64) float64 {
	if baseWidth <= 0 {
		baseWidth = DefaultBaseTextWidth
	}
	return Clamp(bannerBaseFontPx*ratio(containerWidth, baseWidth), minBannerFontPx, maxBannerFontPx)
}

// Clamp limits v to [lo, hi]; NaN maps to lo
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

// ClampPercent limits v to [0, 100]
func ClampPercent(v float64) float64 {
	return Clamp(v, 0, 100)
}

// ContainsPoint reports whether a pixel point lies on the hotspot as drawn.
// Circles are drawn as the ellipse inscribed in the hotspot's box.
func ContainsPoint(h entities.Hotspot, p entities.Point, containerWidth, containerHeight float64) bool {
	origin := ToPixels(h, containerWidth, containerHeight)
	size := SizeToPixels(h, containerWidth, containerHeight)
	if size.Width <= 0 || size.Height <= 0 {
		return false
	}

	if p.X < origin.X || p.X > origin.X+size.Width || p.Y < origin.Y || p.Y > origin.Y+size.Height {
		return false
	}
	if h.Shape != entities.ShapeCircle {
		return true
	}

	rx, ry := size.Width/2, size.Height/2
	dx := (p.X - origin.X - rx) / rx
	dy := (p.Y - origin.Y - ry) / ry
	return dx*dx+dy*dy <= 1
}

// TimelineMarkers places every hotspot window on the seek bar
func TimelineMarkers(hotspots []entities.Hotspot, duration float64) []entities.TimelineMarker {
	markers := make([]entities.TimelineMarker, 0, len(hotspots))
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return markers
	}
	for _, h := range hotspots {
		markers = append(markers, entities.TimelineMarker{
			HotspotID: h.ID,
			Left:      h.StartTime / duration * 100,
			Width:     (h.EndTime - h.StartTime) / duration * 100,
		})
	}
	return markers
}

func ratio(v, of float64) float64 {
	if of == 0 || math.IsNaN(of) {
		return 0
	}
	return v / of
}
