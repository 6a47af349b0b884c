// Package config loads server configuration from the environment.
// A .env file in the working directory is honored when present, so dev
// setups don't need to export anything.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	DBPath   string
}

// Load reads configuration, preferring real environment variables over
// .env entries.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		DBPath:   getenv("DB_PATH", "drops.db"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
