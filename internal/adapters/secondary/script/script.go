package script

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// StepKind names one replay action
type StepKind string

const (
	StepPlay    StepKind = "play"
	StepPause   StepKind = "pause"
	StepAdvance StepKind = "advance"
	StepSeek    StepKind = "seek"
	StepClick   StepKind = "click"
	StepDrag    StepKind = "drag"
	StepResize  StepKind = "resize"
	StepCTA     StepKind = "cta"
	StepAddCTA  StepKind = "add_cta"
	StepSetTime StepKind = "set_time"
	StepDevice  StepKind = "device"
	StepSelect  StepKind = "select"
	StepDelete  StepKind = "delete"
	StepWait    StepKind = "wait_ms"
)

// Script is a recorded editing session
type Script struct {
	Video     VideoSpec     `yaml:"video"`
	Container entities.Size `yaml:"container"`
	Device    string        `yaml:"device"`
	Steps     []Step        `yaml:"steps"`
}

// VideoSpec describes the simulated media
type VideoSpec struct {
	Duration float64 `yaml:"duration"`
}

// Step is one action. Only the fields of its Kind are set.
type Step struct {
	Kind StepKind
	Line int

	// Seconds is the distance of advance or the target of seek
	Seconds float64
	// Wait is the wall-clock pause of wait_ms
	Wait time.Duration

	Point   entities.Point
	Width   float64
	Height  float64
	Hotspot string
	CTA     string
	CTAType entities.CTAType
	Content string
	Field   entities.TimeField
	Value   string
	Device  entities.Device
}

type pointArgs struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type dragArgs struct {
	Hotspot string  `yaml:"hotspot"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
}

type resizeArgs struct {
	Hotspot string  `yaml:"hotspot"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

type ctaArgs struct {
	Hotspot string `yaml:"hotspot"`
	CTA     string `yaml:"cta"`
}

type addCTAArgs struct {
	Hotspot string `yaml:"hotspot"`
	Type    string `yaml:"type"`
	Content string `yaml:"content"`
}

type setTimeArgs struct {
	Hotspot string `yaml:"hotspot"`
	Field   string `yaml:"field"`
	Value   string `yaml:"value"`
}

// UnmarshalYAML accepts a bare action ("- play") or a single-key mapping ("- seek: 3")
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	s.Line = node.Line

	switch node.Kind {
	case yaml.ScalarNode:
		s.Kind = StepKind(strings.TrimSpace(node.Value))
		switch s.Kind {
		case StepPlay, StepPause:
			return nil
		case StepSelect:
			// bare select clears the selection
			return nil
		default:
			return fmt.Errorf("line %d: step %q needs arguments", node.Line, node.Value)
		}

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: a step must have exactly one action", node.Line)
		}
		s.Kind = StepKind(node.Content[0].Value)
		if err := s.decodeArgs(node.Content[1]); err != nil {
			return fmt.Errorf("line %d: %s: %w", node.Line, s.Kind, err)
		}
		return nil

	default:
		return fmt.Errorf("line %d: unexpected step", node.Line)
	}
}

func (s *Step) decodeArgs(value *yaml.Node) error {
	switch s.Kind {
	case StepPlay, StepPause:
		return nil

	case StepAdvance, StepSeek:
		seconds, err := decodeSeconds(value)
		if err != nil {
			return err
		}
		if s.Kind == StepAdvance && seconds < 0 {
			return fmt.Errorf("cannot advance by %v", seconds)
		}
		s.Seconds = seconds

	case StepWait:
		var ms int64
		if err := value.Decode(&ms); err != nil {
			return err
		}
		if ms < 0 {
			return fmt.Errorf("cannot wait %dms", ms)
		}
		s.Wait = time.Duration(ms) * time.Millisecond

	case StepClick:
		var args pointArgs
		if err := value.Decode(&args); err != nil {
			return err
		}
		s.Point = entities.Point{X: args.X, Y: args.Y}

	case StepDrag:
		var args dragArgs
		if err := value.Decode(&args); err != nil {
			return err
		}
		s.Hotspot = args.Hotspot
		s.Point = entities.Point{X: args.X, Y: args.Y}

	case StepResize:
		var args resizeArgs
		if err := value.Decode(&args); err != nil {
			return err
		}
		s.Hotspot, s.Width, s.Height = args.Hotspot, args.Width, args.Height

	case StepCTA:
		var args ctaArgs
		if err := value.Decode(&args); err != nil {
			return err
		}
		s.Hotspot, s.CTA = args.Hotspot, args.CTA

	case StepAddCTA:
		var args addCTAArgs
		if err := value.Decode(&args); err != nil {
			return err
		}
		s.CTAType = entities.CTAType(args.Type)
		if s.CTAType != "" && !s.CTAType.Valid() {
			return fmt.Errorf("unknown CTA type %q", args.Type)
		}
		s.Hotspot, s.Content = args.Hotspot, args.Content

	case StepSetTime:
		var args setTimeArgs
		if err := value.Decode(&args); err != nil {
			return err
		}
		field, err := entities.ParseTimeField(args.Field)
		if err != nil {
			return err
		}
		s.Hotspot, s.Field, s.Value = args.Hotspot, field, args.Value

	case StepDevice:
		device, err := entities.ParseDevice(value.Value)
		if err != nil {
			return err
		}
		s.Device = device

	case StepSelect, StepDelete:
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("expected a hotspot reference")
		}
		s.Hotspot = value.Value

	default:
		return fmt.Errorf("unknown action")
	}

	if value.Kind == yaml.MappingNode && s.needsHotspot() && s.Hotspot == "" {
		return fmt.Errorf("missing hotspot")
	}
	return nil
}

func (s *Step) needsHotspot() bool {
	switch s.Kind {
	case StepDrag, StepResize, StepCTA, StepAddCTA, StepSetTime:
		return true
	default:
		return false
	}
}

// decodeSeconds reads plain seconds or an M:SS.CC time code
func decodeSeconds(value *yaml.Node) (float64, error) {
	if value.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("expected seconds")
	}
	if seconds, err := strconv.ParseFloat(value.Value, 64); err == nil {
		return seconds, nil
	}
	return entities.ParseTimecode(value.Value)
}

// ParseRef resolves "#N" into a 1-based index. ok is false for plain ids.
func ParseRef(ref string) (index int, ok bool, err error) {
	if !strings.HasPrefix(ref, "#") {
		return 0, false, nil
	}
	n, err := strconv.Atoi(ref[1:])
	if err != nil || n < 1 {
		return 0, true, fmt.Errorf("invalid reference %q", ref)
	}
	return n, true, nil
}
