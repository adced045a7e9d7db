package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config - конфигурация портала
type Config struct {
	Env         string
	DBPath      string
	AuthLatency time.Duration
	AuthSecret  string
	LogLevel    string
	LogFile     string
	Seed        bool
}

// Load читает конфигурацию из окружения, .env подхватывается если есть
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:         getEnv("APP_ENV", "development"),
		DBPath:      getEnv("DB_PATH", "tenderportal.db"),
		AuthLatency: getEnvAsDuration("AUTH_LATENCY", 1*time.Second),
		AuthSecret:  getEnv("AUTH_SECRET", "password"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", "tenderportal.log"),
		Seed:        getEnvAsBool("SEED_DATA", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		switch value {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return defaultValue
}
