package services

import (
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// InteractionMarker records CTA engagement with a hotspot
type InteractionMarker interface {
	MarkInteracted(id string)
}

// CTADispatcher performs the side effect of a clicked CTA
type CTADispatcher struct {
	player    ports.Player
	navigator ports.Navigator
	banner    *MessageBanner
	marker    InteractionMarker
	logger    ports.Logger
}

// NewCTADispatcher creates a dispatcher. A nil navigator drops url CTAs and a nil
// logger discards output.
func NewCTADispatcher(player ports.Player, navigator ports.Navigator, banner *MessageBanner, marker InteractionMarker, logger ports.Logger) *CTADispatcher {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &CTADispatcher{
		player:    player,
		navigator: navigator,
		banner:    banner,
		marker:    marker,
		logger:    logger,
	}
}

// SetNavigator replaces the navigation target
func (d *CTADispatcher) SetNavigator(navigator ports.Navigator) {
	d.navigator = navigator
}

// Dispatch marks the hotspot interacted, runs the CTA action and finally resumes
// playback when the hotspot keeps playing. A pause CTA on a keep-playing hotspot
// therefore always ends up playing.
func (d *CTADispatcher) Dispatch(h entities.Hotspot, cta entities.CTA) {
	if d.marker != nil {
		d.marker.MarkInteracted(h.ID)
	}

	switch cta.Type {
	case entities.CTATypeURL:
		d.open(cta.Content)
	case entities.CTATypeMessage:
		if d.banner != nil {
			d.banner.Show(cta.Content)
		}
	case entities.CTATypePause:
		if d.player != nil {
			d.player.Pause()
		}
	default:
		d.logger.Warn("Ignoring CTA %s with unknown type %q", cta.ID, cta.Type)
	}

	if h.KeepPlaying && d.player != nil {
		d.player.Play()
	}
}

// open passes the URL through unvalidated
func (d *CTADispatcher) open(url string) {
	if d.navigator == nil {
		d.logger.Warn("No navigator configured, dropping link %q", url)
		return
	}
	if err := d.navigator.Open(url); err != nil {
		d.logger.Warn("Failed to open link %q: %v", url, err)
	}
}
