package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var load sync.Once

// Config returns the value of the given environment key, loading .env
// on first use.
func Config(key string) string {
	load.Do(func() {
		godotenv.Load(".env")
	})
	return os.Getenv(key)
}

// ConfigDefault returns the value of the given environment key, or
// fallback when the key is unset.
func ConfigDefault(key string, fallback string) string {
	if value := Config(key); value != "" {
		return value
	}
	return fallback
}
