package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "default-secret-key-change-me"

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	CORSOrigin     string
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	JWTSecret      string
	JWTExpiresIn   time.Duration
	RedisAddr      string
	RedisPassword  string
	AuthRateLimit  int
	AuthRateWindow time.Duration
	OpenAIAPIKey   string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "5001"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "taskuser"),
		DBPassword:     getEnv("DB_PASSWORD", "taskpassword"),
		DBName:         getEnv("DB_NAME", "taskflow.db"),
		JWTSecret:      getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiresIn:   getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow: getEnvDuration("AUTH_RATE_WINDOW", 15*time.Minute),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
	}
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.GinMode == "release" && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return errors.New("DB_DRIVER must be one of mysql, postgres, sqlite")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
