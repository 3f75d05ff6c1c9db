package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, loaded once at startup
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Port string
}

type AuthConfig struct {
	// JWTSecret signs session tokens; required, minimum 32 bytes
	JWTSecret string
	// TokenTTL is the session token lifetime
	TokenTTL time.Duration
}

// RedisConfig selects the Redis backends for the banned-token and 2FA code
// stores when URL is set; otherwise the in-memory backends are used
type RedisConfig struct {
	URL string
}

// DatabaseConfig selects the Postgres user store when URL is set; otherwise
// the in-memory backend is used
type DatabaseConfig struct {
	URL string
}

const minJWTSecretLength = 32

// Load reads configuration from the environment, with .env as a fallback
func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(jwtSecret) < minJWTSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters (got %d)", minJWTSecretLength, len(jwtSecret))
	}

	tokenTTL, err := getEnvAsDuration("TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Auth: AuthConfig{
			JWTSecret: jwtSecret,
			TokenTTL:  tokenTTL,
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 1h30m: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return parsed, nil
}
