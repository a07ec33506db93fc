package config

import (
	"os"

	"github.com/joho/godotenv"

	"resume-tailor/internal/shared/telemetry"
)

// loadEnvFiles loads KEY=VALUE pairs from the files that exist. Variables
// already present in the environment win over file values.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			telemetry.Warn("config.env_file_invalid", map[string]any{"path": path, "error": err})
		}
	}
}
