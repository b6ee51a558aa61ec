package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	RedisURL    string
	LogLevel    string
	Environment string
	CORSOrigins string

	YouTubeAPIKey  string
	YouTubeBaseURL string

	// Coordinator tuning.
	RefreshPeriod    time.Duration
	ItemTimeout      time.Duration
	AggregateTimeout time.Duration
	CycleTimeout     time.Duration
	IdleEvictAfter   time.Duration
	MaxResults       int
	StreamMaxResults int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		YouTubeAPIKey:  getEnv("YOUTUBE_API_KEY", ""),
		YouTubeBaseURL: getEnv("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3"),

		RefreshPeriod:    getEnvDuration("REFRESH_PERIOD", 10*time.Minute),
		ItemTimeout:      getEnvDuration("ITEM_TIMEOUT", 5*time.Second),
		AggregateTimeout: getEnvDuration("AGGREGATE_TIMEOUT", 5*time.Second),
		CycleTimeout:     getEnvDuration("CYCLE_TIMEOUT", 60*time.Second),
		IdleEvictAfter:   getEnvDuration("IDLE_EVICT_AFTER", 30*time.Minute),
		MaxResults:       getEnvInt("MAX_RESULTS", 10),
		StreamMaxResults: getEnvInt("STREAM_MAX_RESULTS", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
