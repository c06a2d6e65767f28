package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		config := &Config{
			Server: ServerConfig{
				Host:            "localhost",
				Port:            4180,
				ReadTimeout:     30,
				WriteTimeout:    30,
				ShutdownTimeout: 5,
			},
			Browser: BrowserConfig{AutoOpen: true},
			Editor: EditorConfig{
				Device:        "tablet",
				WindowSeconds: 5,
				BannerMs:      3000,
				Color:         "#FF0000",
				Opacity:       0.5,
				Size:          10,
			},
			Logging: LoggingConfig{Level: "debug"},
		}

		require.NoError(t, config.Validate())
	})

	t.Run("invalid server config", func(t *testing.T) {
		config := &Config{Server: ServerConfig{Port: 70000}}

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server config")
	})

	t.Run("invalid editor config", func(t *testing.T) {
		config := &Config{Editor: EditorConfig{Device: "watch"}}

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "editor config")
	})

	t.Run("invalid logging config", func(t *testing.T) {
		config := &Config{Logging: LoggingConfig{Level: "loud"}}

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ServerConfig
		wantErr string
	}{
		{name: "zero value", config: ServerConfig{}},
		{name: "ip host", config: ServerConfig{Host: "127.0.0.1", Port: 4180}},
		{name: "bad host", config: ServerConfig{Host: "not a host"}, wantErr: "invalid host"},
		{name: "negative port", config: ServerConfig{Port: -1}, wantErr: "port must be between"},
		{name: "negative read timeout", config: ServerConfig{ReadTimeout: -1}, wantErr: "read timeout"},
		{name: "negative write timeout", config: ServerConfig{WriteTimeout: -1}, wantErr: "write timeout"},
		{name: "negative shutdown timeout", config: ServerConfig{ShutdownTimeout: -1}, wantErr: "shutdown timeout"},
		{name: "wildcard origin", config: ServerConfig{CORSOrigins: []string{"*"}}},
		{name: "empty origin", config: ServerConfig{CORSOrigins: []string{""}}, wantErr: "cannot be empty"},
		{name: "schemeless origin", config: ServerConfig{CORSOrigins: []string{"localhost:3000"}}, wantErr: "invalid CORS origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestServerConfig_GetTimeouts(t *testing.T) {
	var defaults ServerConfig
	assert.Equal(t, 30*time.Second, defaults.GetReadTimeout())
	assert.Equal(t, 30*time.Second, defaults.GetWriteTimeout())
	assert.Equal(t, 5*time.Second, defaults.GetShutdownTimeout())
	assert.Len(t, defaults.GetCORSOrigins(), 2)

	custom := ServerConfig{ReadTimeout: 1, WriteTimeout: 2, ShutdownTimeout: 3, CORSOrigins: []string{"http://a.test"}}
	assert.Equal(t, time.Second, custom.GetReadTimeout())
	assert.Equal(t, 2*time.Second, custom.GetWriteTimeout())
	assert.Equal(t, 3*time.Second, custom.GetShutdownTimeout())
	assert.Equal(t, []string{"http://a.test"}, custom.GetCORSOrigins())
}

func TestEditorConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  EditorConfig
		wantErr string
	}{
		{name: "zero value", config: EditorConfig{}},
		{name: "unknown device", config: EditorConfig{Device: "tv"}, wantErr: "unknown device"},
		{name: "negative window", config: EditorConfig{WindowSeconds: -1}, wantErr: "window seconds"},
		{name: "negative banner", config: EditorConfig{BannerMs: -1}, wantErr: "banner duration"},
		{name: "opacity above one", config: EditorConfig{Opacity: 1.5}, wantErr: "opacity"},
		{name: "size above hundred", config: EditorConfig{Size: 150}, wantErr: "size"},
		{name: "color without hash", config: EditorConfig{Color: "red"}, wantErr: "hex string"},
		{name: "negative text width", config: EditorConfig{BaseTextWidth: -5}, wantErr: "base text width"},
		{name: "negative timeupdate", config: EditorConfig{TimeUpdateMs: -5}, wantErr: "timeupdate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEditorConfig_Getters(t *testing.T) {
	var defaults EditorConfig
	assert.Equal(t, DeviceDesktop, defaults.GetDevice())
	assert.Equal(t, 5.0, defaults.GetWindow())
	assert.Equal(t, 3*time.Second, defaults.GetBannerDuration())
	assert.Equal(t, "#FF0000", defaults.GetColor())
	assert.Equal(t, 0.5, defaults.GetOpacity())
	assert.Equal(t, 10.0, defaults.GetSize())
	assert.Equal(t, 1280.0, defaults.GetBaseTextWidth())
	assert.Equal(t, 250*time.Millisecond, defaults.GetTimeUpdateInterval())
	assert.InDelta(t, 0.5625, defaults.GetContainerRatio(), 1e-9)

	custom := EditorConfig{Device: "mobile", WindowSeconds: 8, BannerMs: 1500, Color: "#00FF00", Opacity: 0.8, Size: 20}
	assert.Equal(t, DeviceMobile, custom.GetDevice())
	assert.Equal(t, 8.0, custom.GetWindow())
	assert.Equal(t, 1500*time.Millisecond, custom.GetBannerDuration())
	assert.Equal(t, "#00FF00", custom.GetColor())
	assert.Equal(t, 0.8, custom.GetOpacity())
	assert.Equal(t, 20.0, custom.GetSize())
}

func TestLoggingConfig_GetLevel(t *testing.T) {
	assert.Equal(t, LogLevelInfo, LoggingConfig{}.GetLevel())
	assert.Equal(t, LogLevelWarn, LoggingConfig{Level: "warn"}.GetLevel())
}
