package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the process reads from the environment.
// cmd/main.go loads a .env file first (godotenv), so local development can
// keep these in a file while deployments use real env vars.
type Config struct {
	HTTPAddr string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration
}

func Load() *Config {
	return &Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		PostgresDSN:   getenv("POSTGRES_DSN", "host=localhost user=user password=password dbname=chatterbox port=5432 sslmode=disable"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),
		JWTSecret:     getenv("JWT_SECRET", "dev-only-secret"),
		TokenTTL:      getduration("TOKEN_TTL", 72*time.Hour),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
