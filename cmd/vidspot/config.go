package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/vidspot/internal/adapters/secondary/config"
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/services"
)

// loadConfig resolves the configuration for a command working on files in dir.
// Precedence: CLI flags > VIDSPOT_* environment (including dir/.env) > ./vidspot.toml >
// global file > defaults.
func loadConfig(cmd *cobra.Command, dir string, flags map[string]interface{}) (*entities.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	if _, err := config.LoadEnvFile(dir); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	service := services.NewConfigService(
		config.NewTOMLLoaderWithPath(configPath),
		config.NewConfigMerger(),
	)

	if flags == nil {
		flags = map[string]interface{}{}
	}
	if cmd.Flags().Changed("verbose") {
		verbose, _ := cmd.Flags().GetBool("verbose")
		flags["verbose"] = verbose
	}

	cfg, err := service.LoadConfig(cmd.Context(), dir, flags)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// newCommandLogger creates the CLI logger from the logging section
func newCommandLogger(cfg *entities.Config) *Logger {
	return newLoggerWithLevel(cfg.Logging.Verbose, cfg.Logging.GetLevel())
}
