package http

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// textSanitizer strips all markup from text the UI paints: banner messages and button labels
var textSanitizer = bluemonday.StrictPolicy()

// sanitizeEvent returns event with its display text sanitized
func sanitizeEvent(event entities.SessionEvent) entities.SessionEvent {
	switch data := event.Data.(type) {
	case entities.SessionView:
		event.Data = sanitizeView(data)
	case entities.BannerState:
		event.Data = sanitizeBanner(data)
	}
	return event
}

// sanitizeView copies the parts of view that carry display text
func sanitizeView(view entities.SessionView) entities.SessionView {
	view.Banner = sanitizeBanner(view.Banner)

	active := make([]entities.HotspotView, len(view.Active))
	for i, hv := range view.Active {
		buttons := make([]entities.CTAButtonView, len(hv.Buttons))
		for j, b := range hv.Buttons {
			b.Label = textSanitizer.Sanitize(b.Label)
			buttons[j] = b
		}
		hv.Buttons = buttons
		active[i] = hv
	}
	view.Active = active

	return view
}

func sanitizeBanner(state entities.BannerState) entities.BannerState {
	state.Message = textSanitizer.Sanitize(state.Message)
	return state
}
