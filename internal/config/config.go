package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	RedisAddr  string
	SQLitePath string

	PropertySourceURL       string
	MarketSourceURL         string
	InfrastructureSourceURL string

	// Per-feed scheduling cadence. The distribution defaults are 5m/1h/24h;
	// an ingestion-style deployment overrides these independently via env.
	PropertyInterval       time.Duration
	MarketInterval         time.Duration
	InfrastructureInterval time.Duration

	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		SQLitePath: getEnv("SQLITE_PATH", "feed.db"),

		PropertySourceURL:       getEnv("PROPERTY_API_URL", "http://localhost:9001/properties"),
		MarketSourceURL:         getEnv("MARKET_API_URL", "http://localhost:9002/market"),
		InfrastructureSourceURL: getEnv("INFRASTRUCTURE_API_URL", "http://localhost:9003/projects"),

		PropertyInterval:       getEnvDuration("PROPERTY_INTERVAL", 5*time.Minute),
		MarketInterval:         getEnvDuration("MARKET_INTERVAL", time.Hour),
		InfrastructureInterval: getEnvDuration("INFRASTRUCTURE_INTERVAL", 24*time.Hour),

		CacheTTL:     getEnvDuration("CACHE_TTL", time.Hour),
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("[config] Invalid duration for %s, using default %v", key, fallback)
	}
	return fallback
}
