package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Provider  ProviderConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig controls the root logger.
type LogConfig struct {
	Level  string
	Format string
}

// ProviderConfig holds the settings for the third-party scheme data API.
type ProviderConfig struct {
	URL     string
	APIKey  string
	APIHost string
	Timeout time.Duration
}

// AuthConfig holds token signing and lifetime settings.
type AuthConfig struct {
	JWTSecret       string
	RefreshKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// RedisConfig is optional; an empty Addr keeps the token blacklist in the database.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SchedulerConfig controls the periodic fund ingestion job.
type SchedulerConfig struct {
	FetchFundsEnabled    bool
	FetchFundsSchedule   string
	TokenCleanupSchedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	accessTTL, err := getEnvDuration("ACCESS_TOKEN_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := getEnvDuration("REFRESH_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	providerTimeout, err := getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	fetchEnabled, err := getEnvBool("FETCH_FUNDS_ENABLED", true)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/fund_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Provider: ProviderConfig{
			URL:     getEnv("RAPID_API_URL", "https://latest-mutual-fund-nav.p.rapidapi.com/latest"),
			APIKey:  getEnv("RAPIDAPI_KEY", ""),
			APIHost: getEnv("RAPIDAPI_HOST", "latest-mutual-fund-nav.p.rapidapi.com"),
			Timeout: providerTimeout,
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", "dev-insecure-secret-change-me"),
			RefreshKey:      getEnv("REFRESH_TOKEN_KEY", ""),
			AccessTokenTTL:  accessTTL,
			RefreshTokenTTL: refreshTTL,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Scheduler: SchedulerConfig{
			FetchFundsEnabled:    fetchEnabled,
			FetchFundsSchedule:   getEnv("FETCH_FUNDS_SCHEDULE", "@every 1h"),
			TokenCleanupSchedule: getEnv("TOKEN_CLEANUP_SCHEDULE", "@daily"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
