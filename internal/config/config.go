package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	SeedData    bool
	GinMode     string

	// Rate providers. The primary serves daily currency tables; the
	// fallback mirror is tried when the primary fails for anything other
	// than a missing release.
	FXPrimaryURL      string
	FXFallbackURL     string
	FXFetchTimeout    time.Duration
	FXMaxLookbackDays int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "ffe"),
		DBPassword:  getEnv("DB_PASSWORD", "ffe_secret"),
		DBName:      getEnv("DB_NAME", "ffe"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		SeedData:    getEnv("SEED_DATA", "false") == "true",
		GinMode:     getEnv("GIN_MODE", "debug"),

		FXPrimaryURL:      getEnv("FX_PRIMARY_URL", "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api"),
		FXFallbackURL:     getEnv("FX_FALLBACK_URL", "https://currency-api.pages.dev"),
		FXFetchTimeout:    getEnvDuration("FX_FETCH_TIMEOUT", 5*time.Second),
		FXMaxLookbackDays: getEnvInt("FX_MAX_LOOKBACK_DAYS", 30),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
