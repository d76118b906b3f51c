// Package config loads client settings from the environment, with an
// optional .env file for development setups.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the editor's runtime settings.
type Config struct {
	// ServerURL is the base URL of the detection backend.
	ServerURL string
	// Debug enables debug-level logging.
	Debug bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present; missing values fall back
// to defaults matching the backend's own.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerURL: getEnvOrDefault("SERVER_URL", "http://127.0.0.1:5000"),
		Debug:     os.Getenv("DEBUG") == "1",
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
