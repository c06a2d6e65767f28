package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFileName is the per-directory file of VIDSPOT_* overrides
const EnvFileName = ".env"

// LoadEnvFile exports the variables of dir/.env into the process environment.
// Variables already set keep their value. A missing file is not an error.
func LoadEnvFile(dir string) (bool, error) {
	path := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}

	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("loading %s: %w", path, err)
	}
	return true, nil
}
