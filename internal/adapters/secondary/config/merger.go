package config

import (
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

// Environment variables read by ApplyEnvVars
const (
	EnvHost          = "VIDSPOT_HOST"
	EnvPort          = "VIDSPOT_PORT"
	EnvCORSOrigins   = "VIDSPOT_CORS_ORIGINS"
	EnvNoBrowser     = "VIDSPOT_NO_BROWSER"
	EnvExternalLinks = "VIDSPOT_EXTERNAL_LINKS"
	EnvDevice        = "VIDSPOT_DEVICE"
	EnvWindowSeconds = "VIDSPOT_WINDOW_SECONDS"
	EnvBannerMs      = "VIDSPOT_BANNER_MS"
	EnvLogLevel      = "VIDSPOT_LOG_LEVEL"
	EnvLogVerbose    = "VIDSPOT_LOG_VERBOSE"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges configurations with later configs taking precedence. Zero values
// never override; merging nothing yields the defaults.
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	var result *entities.Config
	for _, c := range configs {
		if c == nil {
			continue
		}
		if result == nil {
			result = deepCopy(c)
			continue
		}
		m.mergeInto(result, c)
	}

	if result == nil {
		return GetDefaultConfig()
	}
	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if noBrowser, ok := flags["no-browser"].(bool); ok && noBrowser {
		result.Browser.AutoOpen = false
	}

	if external, ok := flags["external-links"].(bool); ok && external {
		result.Browser.ExternalLinks = true
	}

	if device, ok := flags["device"].(string); ok && device != "" {
		result.Editor.Device = device
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
		result.Logging.Level = string(entities.LogLevelDebug)
	}

	return result
}

// ApplyEnvVars applies VIDSPOT_* environment overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	result.Server.Host = getEnvOrDefault(EnvHost, result.Server.Host)
	if port := getEnvIntOrDefault(EnvPort, 0); port > 0 {
		result.Server.Port = port
	}
	result.Server.CORSOrigins = getEnvSliceOrDefault(EnvCORSOrigins, result.Server.CORSOrigins)

	result.Browser.AutoOpen = !getEnvBoolOrDefault(EnvNoBrowser, !result.Browser.AutoOpen)
	result.Browser.ExternalLinks = getEnvBoolOrDefault(EnvExternalLinks, result.Browser.ExternalLinks)

	result.Editor.Device = getEnvOrDefault(EnvDevice, result.Editor.Device)
	if window := getEnvFloatOrDefault(EnvWindowSeconds, 0); window > 0 {
		result.Editor.WindowSeconds = window
	}
	if banner := getEnvIntOrDefault(EnvBannerMs, 0); banner > 0 {
		result.Editor.BannerMs = banner
	}

	result.Logging.Level = getEnvOrDefault(EnvLogLevel, result.Logging.Level)
	result.Logging.Verbose = getEnvBoolOrDefault(EnvLogVerbose, result.Logging.Verbose)

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server config
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = append([]string(nil), source.Server.CORSOrigins...)
	}

	// Browser config; the loader fills an omitted auto_open with its default
	target.Browser.AutoOpen = source.Browser.AutoOpen
	if source.Browser.ExternalLinks {
		target.Browser.ExternalLinks = true
	}

	// Editor config
	if source.Editor.Device != "" {
		target.Editor.Device = source.Editor.Device
	}
	if source.Editor.WindowSeconds != 0 {
		target.Editor.WindowSeconds = source.Editor.WindowSeconds
	}
	if source.Editor.BannerMs != 0 {
		target.Editor.BannerMs = source.Editor.BannerMs
	}
	if source.Editor.Color != "" {
		target.Editor.Color = source.Editor.Color
	}
	if source.Editor.Opacity != 0 {
		target.Editor.Opacity = source.Editor.Opacity
	}
	if source.Editor.Size != 0 {
		target.Editor.Size = source.Editor.Size
	}
	if source.Editor.BaseTextWidth != 0 {
		target.Editor.BaseTextWidth = source.Editor.BaseTextWidth
	}
	if source.Editor.TimeUpdateMs != 0 {
		target.Editor.TimeUpdateMs = source.Editor.TimeUpdateMs
	}
	if source.Editor.ContainerRatio != 0 {
		target.Editor.ContainerRatio = source.Editor.ContainerRatio
	}

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	if source.Logging.Verbose {
		target.Logging.Verbose = true
	}
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = make([]string, len(src.Server.CORSOrigins))
		copy(dst.Server.CORSOrigins, src.Server.CORSOrigins)
	}
	return &dst
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
