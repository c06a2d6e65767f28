package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fredcamaral/vidspot/internal/adapters/secondary/playback"
	scriptfile "github.com/fredcamaral/vidspot/internal/adapters/secondary/script"
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
	"github.com/fredcamaral/vidspot/internal/domain/services"
)

// TickInterval is how often a playing video reports timeupdate while advancing
const TickInterval = 250 * time.Millisecond

// Result is the end state of a replay
type Result struct {
	Hotspots    []entities.Hotspot     `json:"hotspots"`
	SelectedID  string                 `json:"selectedHotspot,omitempty"`
	Playback    entities.PlaybackState `json:"playback"`
	Banner      entities.BannerState   `json:"banner"`
	Device      entities.Device        `json:"device"`
	Navigations []string               `json:"navigations"`
	Warnings    []string               `json:"warnings"`
	Steps       int                    `json:"steps"`
}

// Runner replays scripts against a headless editor session
type Runner struct {
	options services.SessionOptions
	logger  ports.Logger
	tick    time.Duration
}

// NewRunner creates a runner. opts supplies editor defaults; clock and navigator
// are replaced by the replay's own.
func NewRunner(opts services.SessionOptions, logger ports.Logger) *Runner {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &Runner{options: opts, logger: logger, tick: TickInterval}
}

// SetTickInterval changes the timeupdate granularity of advance steps
func (r *Runner) SetTickInterval(d time.Duration) {
	if d > 0 {
		r.tick = d
	}
}

// replay is the state of one run
type replay struct {
	session  *services.EditorSession
	video    *playback.SimulatedVideo
	clock    *playback.VirtualClock
	logger   ports.Logger
	tick     time.Duration
	created  []string
	warnings []string

	navMu       sync.Mutex
	navigations []string
}

// Run executes every step in order and returns the final state
func (r *Runner) Run(ctx context.Context, s *scriptfile.Script) (*Result, error) {
	if err := scriptfile.Validate(s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	device, err := entities.ParseDevice(s.Device)
	if err != nil {
		return nil, err
	}

	rp := &replay{
		video:  playback.NewSimulatedVideo(s.Video.Duration),
		clock:  playback.NewVirtualClock(),
		logger: r.logger,
		tick:   r.tick,
	}

	opts := r.options
	opts.Clock = rp.clock
	opts.Logger = r.logger
	opts.Device = device
	opts.Navigator = ports.NavigatorFunc(rp.recordNavigation)

	rp.session = services.NewEditorSession(rp.video, opts)
	defer rp.session.Close()

	rp.session.ObserveDuration(s.Video.Duration)
	rp.session.SetContainerSize(s.Container.Width, s.Container.Height)

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := rp.apply(step); err != nil {
			return nil, fmt.Errorf("step %d (line %d, %s): %w", i+1, step.Line, step.Kind, err)
		}
	}

	view := rp.session.View()
	snap := rp.session.Snapshot()

	rp.navMu.Lock()
	navigations := append([]string{}, rp.navigations...)
	rp.navMu.Unlock()

	return &Result{
		Hotspots:    snap.Hotspots,
		SelectedID:  snap.SelectedID,
		Playback:    view.Playback,
		Banner:      view.Banner,
		Device:      view.Device,
		Navigations: navigations,
		Warnings:    append([]string{}, rp.warnings...),
		Steps:       len(s.Steps),
	}, nil
}

func (rp *replay) apply(step scriptfile.Step) error {
	switch step.Kind {
	case scriptfile.StepPlay:
		rp.video.Play()
		rp.session.ObservePlay()
		rp.syncPaused()

	case scriptfile.StepPause:
		rp.video.Pause()
		rp.session.ObservePause()

	case scriptfile.StepAdvance:
		rp.advance(time.Duration(step.Seconds * float64(time.Second)))

	case scriptfile.StepSeek:
		rp.video.Seek(step.Seconds)
		rp.session.TimeUpdate(rp.video.CurrentTime())
		rp.syncPaused()

	case scriptfile.StepWait:
		rp.clock.Advance(step.Wait)

	case scriptfile.StepClick:
		h, ok := rp.session.ClickOverlay(step.Point)
		if !ok {
			rp.warn("click at (%.0f, %.0f) created no hotspot", step.Point.X, step.Point.Y)
			return nil
		}
		rp.created = append(rp.created, h.ID)

	case scriptfile.StepDrag:
		id, err := rp.hotspotID(step.Hotspot)
		if err != nil {
			return err
		}
		rp.session.Drag(id, step.Point)

	case scriptfile.StepResize:
		id, err := rp.hotspotID(step.Hotspot)
		if err != nil {
			return err
		}
		rp.session.BeginResize(id)
		rp.session.Resize(id, step.Width, step.Height)
		rp.session.EndResize(id)

	case scriptfile.StepCTA:
		id, err := rp.hotspotID(step.Hotspot)
		if err != nil {
			return err
		}
		ctaID, err := rp.ctaID(id, step.CTA)
		if err != nil {
			return err
		}
		if !rp.session.ClickCTA(id, ctaID) {
			rp.warn("CTA %s of %s is not clickable at %s", step.CTA, step.Hotspot,
				entities.FormatTimecode(rp.video.CurrentTime()))
		}
		rp.syncPaused()

	case scriptfile.StepAddCTA:
		id, err := rp.hotspotID(step.Hotspot)
		if err != nil {
			return err
		}
		rp.session.AddCTA(id, entities.CTADraft{Type: step.CTAType, Content: step.Content})

	case scriptfile.StepSetTime:
		id, err := rp.hotspotID(step.Hotspot)
		if err != nil {
			return err
		}
		if err := rp.session.SetTimeField(id, step.Field, step.Value); err != nil {
			rp.warn("%s time of %s left unchanged: %v", step.Field, step.Hotspot, err)
		}

	case scriptfile.StepDevice:
		rp.session.SetDevice(step.Device)

	case scriptfile.StepSelect:
		if step.Hotspot == "" {
			rp.session.Select("")
			return nil
		}
		id, err := rp.hotspotID(step.Hotspot)
		if err != nil {
			return err
		}
		rp.session.Select(id)

	case scriptfile.StepDelete:
		id, err := rp.hotspotID(step.Hotspot)
		if err != nil {
			return err
		}
		rp.session.DeleteHotspot(id)

	default:
		return fmt.Errorf("unsupported step")
	}

	return nil
}

// advance plays for d, reporting timeupdate every tick. Virtual time moves even
// while paused so banners still expire.
func (rp *replay) advance(d time.Duration) {
	for d > 0 {
		tick := rp.tick
		if d < tick {
			tick = d
		}
		d -= tick

		playing := !rp.video.Paused()
		rp.clock.Advance(tick)
		if !playing {
			continue
		}

		rp.session.TimeUpdate(rp.video.Advance(tick))
		rp.syncPaused()
	}
}

// syncPaused reports a pause the session or the end of media caused, the way
// the video element fires pause after pause()
func (rp *replay) syncPaused() {
	if rp.video.Paused() {
		rp.session.ObservePause()
	}
}

func (rp *replay) hotspotID(ref string) (string, error) {
	n, isRef, err := scriptfile.ParseRef(ref)
	if err != nil {
		return "", err
	}
	if !isRef {
		return ref, nil
	}
	if n > len(rp.created) {
		return "", fmt.Errorf("hotspot %s has not been created (%d so far)", ref, len(rp.created))
	}
	return rp.created[n-1], nil
}

func (rp *replay) ctaID(hotspotID, ref string) (string, error) {
	n, isRef, err := scriptfile.ParseRef(ref)
	if err != nil {
		return "", err
	}
	if !isRef {
		return ref, nil
	}
	for _, h := range rp.session.Snapshot().Hotspots {
		if h.ID != hotspotID {
			continue
		}
		if n > len(h.CTAs) {
			return "", fmt.Errorf("CTA %s does not exist (%d on hotspot)", ref, len(h.CTAs))
		}
		return h.CTAs[n-1].ID, nil
	}
	return "", fmt.Errorf("hotspot %s no longer exists", hotspotID)
}

func (rp *replay) recordNavigation(url string) error {
	rp.navMu.Lock()
	defer rp.navMu.Unlock()
	rp.navigations = append(rp.navigations, url)
	return nil
}

func (rp *replay) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	rp.logger.Warn("%s", msg)
	rp.warnings = append(rp.warnings, msg)
}
