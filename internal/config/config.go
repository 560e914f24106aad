package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings, read from the environment with an optional
// .env file on top
type Config struct {
	Port           string
	SeedFile       string
	SessionFile    string
	BidLatency     time.Duration
	ConfirmLatency time.Duration
}

// Load reads configuration. A missing .env file is fine; the environment
// alone is enough.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getEnv("PORT", "8080"),
		SeedFile:       getEnv("SEED_FILE", "seed/products.yaml"),
		SessionFile:    getEnv("SESSION_FILE", "agribid_session.json"),
		BidLatency:     durationMS("SIMULATED_LATENCY_MS", 0),
		ConfirmLatency: durationMS("CONFIRM_LATENCY_MS", 0),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationMS(key string, fallback int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Millisecond
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return time.Duration(fallback) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}
