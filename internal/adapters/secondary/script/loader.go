package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// ErrEmptyScript is returned for a script without steps
var ErrEmptyScript = errors.New("script has no steps")

// Loader reads replay scripts from YAML files
type Loader struct{}

// NewLoader creates a new script loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads and validates the script at path
func (l *Loader) LoadFile(ctx context.Context, path string) (*Script, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is given on the command line
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}

	s, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML script
func (l *Loader) Parse(data []byte) (*Script, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var s Script
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScript
		}
		return nil, err
	}

	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the script header and fills in defaults
func Validate(s *Script) error {
	if len(s.Steps) == 0 {
		return ErrEmptyScript
	}
	if s.Video.Duration <= 0 {
		return fmt.Errorf("video duration must be positive, got %v", s.Video.Duration)
	}
	if s.Container.Width < 0 || s.Container.Height < 0 {
		return fmt.Errorf("invalid container %vx%v", s.Container.Width, s.Container.Height)
	}
	if s.Container == (entities.Size{}) {
		s.Container = DefaultContainer
	}
	if s.Device == "" {
		s.Device = string(entities.DeviceDesktop)
	}
	if _, err := entities.ParseDevice(s.Device); err != nil {
		return err
	}
	return nil
}

// DefaultContainer is a 16:9 desktop player
var DefaultContainer = entities.Size{Width: 1280, Height: 720}
