package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// DefaultPort is where the editor bridge listens unless configured otherwise
const DefaultPort = 4180

// GetDefaultConfig returns the built in configuration
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:            "localhost",
			Port:            DefaultPort,
			ReadTimeout:     30,
			WriteTimeout:    30,
			ShutdownTimeout: 5,
			CORSOrigins: []string{
				"http://localhost:4180",
				"http://127.0.0.1:4180",
			},
		},
		Browser: entities.BrowserConfig{
			AutoOpen:      true,
			ExternalLinks: false,
		},
		Editor: entities.EditorConfig{
			Device:         string(entities.DeviceDesktop),
			WindowSeconds:  5,
			BannerMs:       3000,
			Color:          "#FF0000",
			Opacity:        0.5,
			Size:           10,
			BaseTextWidth:  1280,
			TimeUpdateMs:   250,
			ContainerRatio: 9.0 / 16.0,
		},
		Logging: entities.LoggingConfig{
			Level:   string(entities.LogLevelInfo),
			Verbose: false,
		},
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloatOrDefault returns environment variable as float or default
func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns a comma separated environment variable as slice or default
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
