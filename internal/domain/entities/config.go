package entities

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Browser BrowserConfig `toml:"browser"`
	Editor  EditorConfig  `toml:"editor"`
	Logging LoggingConfig `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser config: %w", err)
	}

	if err := c.Editor.Validate(); err != nil {
		return fmt.Errorf("editor config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains the editor bridge HTTP configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" && s.Host != "localhost" {
		if ip := net.ParseIP(s.Host); ip == nil {
			return fmt.Errorf("invalid host: %s", s.Host)
		}
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with loopback defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{
			"http://localhost:4180",
			"http://127.0.0.1:4180",
		}
	}
	return s.CORSOrigins
}

// BrowserConfig contains browser launch configuration
type BrowserConfig struct {
	AutoOpen bool `toml:"auto_open"`
	// ExternalLinks opens url CTAs with the system browser instead of a new tab of the editor
	ExternalLinks bool `toml:"external_links"`
}

// Validate validates browser configuration
func (b BrowserConfig) Validate() error {
	return nil
}

// EditorConfig holds the defaults used when authoring hotspots
type EditorConfig struct {
	Device         string  `toml:"device"`
	WindowSeconds  float64 `toml:"window_seconds"`
	BannerMs       int     `toml:"banner_ms"`
	Color          string  `toml:"color"`
	Opacity        float64 `toml:"opacity"`
	Size           float64 `toml:"size"`
	BaseTextWidth  int     `toml:"base_text_width"`
	TimeUpdateMs   int     `toml:"timeupdate_ms"`
	ContainerRatio float64 `toml:"container_ratio"`
}

// Validate validates editor configuration
func (e EditorConfig) Validate() error {
	if e.Device != "" {
		if _, err := ParseDevice(e.Device); err != nil {
			return err
		}
	}

	if e.WindowSeconds < 0 {
		return errors.New("window seconds must be non-negative")
	}

	if e.BannerMs < 0 {
		return errors.New("banner duration must be non-negative")
	}

	if e.Opacity < 0 || e.Opacity > 1 {
		return errors.New("opacity must be between 0 and 1")
	}

	if e.Size < 0 || e.Size > 100 {
		return errors.New("size must be between 0 and 100 percent")
	}

	if e.Color != "" && !strings.HasPrefix(e.Color, "#") {
		return fmt.Errorf("color must be a hex string: %s", e.Color)
	}

	if e.BaseTextWidth < 0 {
		return errors.New("base text width must be non-negative")
	}

	if e.TimeUpdateMs < 0 {
		return errors.New("timeupdate interval must be non-negative")
	}

	if e.ContainerRatio < 0 {
		return errors.New("container ratio must be non-negative")
	}

	return nil
}

// GetDevice returns the initial preview device
func (e EditorConfig) GetDevice() Device {
	if d, err := ParseDevice(e.Device); err == nil {
		return d
	}
	return DeviceDesktop
}

// GetWindow returns the default hotspot window length in seconds
func (e EditorConfig) GetWindow() float64 {
	if e.WindowSeconds <= 0 {
		return 5
	}
	return e.WindowSeconds
}

// GetBannerDuration returns how long a message CTA stays on screen
func (e EditorConfig) GetBannerDuration() time.Duration {
	if e.BannerMs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(e.BannerMs) * time.Millisecond
}

// GetColor returns the default hotspot color
func (e EditorConfig) GetColor() string {
	if e.Color == "" {
		return "#FF0000"
	}
	return e.Color
}

// GetOpacity returns the default hotspot opacity
func (e EditorConfig) GetOpacity() float64 {
	if e.Opacity <= 0 {
		return 0.5
	}
	return e.Opacity
}

// GetSize returns the default hotspot edge length in percent, before device scaling
func (e EditorConfig) GetSize() float64 {
	if e.Size <= 0 {
		return 10
	}
	return e.Size
}

// GetBaseTextWidth returns the container width at which text renders unscaled
func (e EditorConfig) GetBaseTextWidth() float64 {
	if e.BaseTextWidth <= 0 {
		return 1280
	}
	return float64(e.BaseTextWidth)
}

// GetTimeUpdateInterval returns the simulated timeupdate granularity
func (e EditorConfig) GetTimeUpdateInterval() time.Duration {
	if e.TimeUpdateMs <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(e.TimeUpdateMs) * time.Millisecond
}

// GetContainerRatio returns the height/width ratio of the simulated player
func (e EditorConfig) GetContainerRatio() float64 {
	if e.ContainerRatio <= 0 {
		return 9.0 / 16.0
	}
	return e.ContainerRatio
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `toml:"level"`   // debug, info, warn, error
	Verbose bool   `toml:"verbose"` // Enable verbose logging
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
		// Empty is okay, will use default
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}
