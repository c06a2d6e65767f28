package script

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scriptfile "github.com/fredcamaral/vidspot/internal/adapters/secondary/script"
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/services"
)

func parse(t *testing.T, src string) *scriptfile.Script {
	t.Helper()
	s, err := scriptfile.NewLoader().Parse([]byte(src))
	require.NoError(t, err)
	return s
}

func run(t *testing.T, src string) *Result {
	t.Helper()
	result, err := NewRunner(services.SessionOptions{}, nil).Run(context.Background(), parse(t, src))
	require.NoError(t, err)
	return result
}

func TestRunnerAutoPauseAndMessage(t *testing.T) {
	result := run(t, `
video: {duration: 30}
container: {width: 1000, height: 500}
steps:
  - seek: 2
  - click: {x: 500, y: 250}
  - add_cta: {hotspot: "#1", type: message, content: "Hello"}
  - play
  - cta: {hotspot: "#1", cta: "#1"}
  - wait_ms: 1000
`)

	require.Len(t, result.Hotspots, 1)
	h := result.Hotspots[0]
	assert.Equal(t, 50.0, h.X)
	assert.Equal(t, 50.0, h.Y)
	assert.Equal(t, 2.0, h.StartTime)
	assert.Equal(t, 7.0, h.EndTime)
	require.Len(t, h.CTAs, 1)

	assert.True(t, result.Playback.Paused, "auto-pause stops playback and the CTA does not resume it")
	assert.Equal(t, 2.0, result.Playback.CurrentTime)
	assert.True(t, result.Banner.Visible)
	assert.Equal(t, "Hello", result.Banner.Message)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 6, result.Steps)
}

func TestRunnerPlaysPastInteractedHotspot(t *testing.T) {
	result := run(t, `
video: {duration: 30}
container: {width: 1000, height: 500}
steps:
  - seek: 2
  - click: {x: 500, y: 250}
  - add_cta: {hotspot: "#1", type: message, content: "Hello"}
  - play
  - cta: {hotspot: "#1", cta: "#1"}
  - play
  - advance: 6
`)

	assert.False(t, result.Playback.Paused)
	assert.Equal(t, 8.0, result.Playback.CurrentTime)
	assert.False(t, result.Banner.Visible, "banner expires after three seconds")
}

func TestRunnerEndOfMedia(t *testing.T) {
	result := run(t, `
video: {duration: 3}
steps:
  - play
  - advance: 5
`)

	assert.True(t, result.Playback.Paused)
	assert.Equal(t, 3.0, result.Playback.CurrentTime)
}

func TestRunnerEditing(t *testing.T) {
	result := run(t, `
video: {duration: 60}
container: {width: 1000, height: 500}
steps:
  - click: {x: 500, y: 250}
  - click: {x: 900, y: 450}
  - drag: {hotspot: "#1", x: 100, y: 50}
  - resize: {hotspot: "#1", width: 20, height: 30}
  - set_time: {hotspot: "#1", field: end, value: "0:12.50"}
  - set_time: {hotspot: "#1", field: start, value: "later"}
  - select: "#2"
  - delete: "#2"
  - device: tablet
`)

	require.Len(t, result.Hotspots, 1)
	h := result.Hotspots[0]
	assert.Equal(t, 10.0, h.X)
	assert.Equal(t, 10.0, h.Y)
	assert.Equal(t, 20.0, h.Width)
	assert.Equal(t, 30.0, h.Height)
	assert.Equal(t, 0.0, h.StartTime, "malformed time code leaves the value unchanged")
	assert.Equal(t, 12.5, h.EndTime)

	assert.Empty(t, result.SelectedID, "deleting the selected hotspot clears the selection")
	assert.Equal(t, entities.DeviceTablet, result.Device)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "left unchanged")
}

func TestRunnerURLCTA(t *testing.T) {
	result := run(t, `
video: {duration: 10}
steps:
  - click: {x: 100, y: 100}
  - add_cta: {hotspot: "#1", type: url, content: "https://example.com"}
  - cta: {hotspot: "#1", cta: "#1"}
  - seek: 8
  - cta: {hotspot: "#1", cta: "#1"}
`)

	assert.Equal(t, []string{"https://example.com"}, result.Navigations)
	require.Len(t, result.Warnings, 1, "inactive hotspots are not clickable")
}

func TestRunnerErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "hotspot not created yet", src: "video: {duration: 5}\nsteps:\n  - drag: {hotspot: \"#1\", x: 1, y: 1}\n"},
		{name: "CTA missing", src: "video: {duration: 5}\nsteps:\n  - click: {x: 10, y: 10}\n  - cta: {hotspot: \"#1\", cta: \"#2\"}\n"},
		{name: "CTA on deleted hotspot", src: "video: {duration: 5}\nsteps:\n  - click: {x: 10, y: 10}\n  - delete: \"#1\"\n  - cta: {hotspot: \"#1\", cta: \"#1\"}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(services.SessionOptions{}, nil).Run(context.Background(), parse(t, tt.src))
			assert.Error(t, err)
		})
	}

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewRunner(services.SessionOptions{}, nil).Run(ctx, parse(t, "video: {duration: 5}\nsteps: [play]\n"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid script", func(t *testing.T) {
		_, err := NewRunner(services.SessionOptions{}, nil).Run(context.Background(), &scriptfile.Script{})
		assert.Error(t, err)
	})
}

func TestRunnerUsesCreationDefaults(t *testing.T) {
	opts := services.SessionOptions{Defaults: services.CreationDefaults{
		Color:         "#00FF00",
		Opacity:       0.8,
		Size:          20,
		WindowSeconds: 2,
	}}
	s := parse(t, "video: {duration: 30}\nsteps:\n  - click: {x: 10, y: 10}\n")

	result, err := NewRunner(opts, nil).Run(context.Background(), s)
	require.NoError(t, err)

	require.Len(t, result.Hotspots, 1)
	assert.Equal(t, "#00FF00", result.Hotspots[0].Color)
	assert.Equal(t, 20.0, result.Hotspots[0].Width)
	assert.Equal(t, 2.0, result.Hotspots[0].EndTime)
}

func TestRunnerTickInterval(t *testing.T) {
	s := parse(t, `
video: {duration: 30}
container: {width: 1000, height: 500}
steps:
  - seek: 1
  - click: {x: 10, y: 10}
  - seek: 0
  - play
  - advance: 3
`)

	runner := NewRunner(services.SessionOptions{}, nil)
	runner.SetTickInterval(time.Second)

	result, err := runner.Run(context.Background(), s)
	require.NoError(t, err)

	assert.True(t, result.Playback.Paused, "playback pauses on the first tick inside the window")
	assert.Equal(t, 1.0, result.Playback.CurrentTime)
}
