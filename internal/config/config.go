package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	GinMode       string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	SessionSecret string

	// Hosted identity provider (OAuth2 / OIDC)
	IdentityIssuer       string
	IdentityAuthURL      string
	IdentityTokenURL     string
	IdentityClientID     string
	IdentityClientSecret string
	IdentityRedirectURL  string
	IdentitySigningKey   string

	SentryDSN string
}

// Load reads configuration from the environment. A .env file is honored
// when present but never required.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "projectflow"),
		DBPassword:    getEnv("DB_PASSWORD", "projectflow"),
		DBName:        getEnv("DB_NAME", "projectflow"),
		DBSSLMode:     getEnv("DB_SSL_MODE", "disable"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),

		IdentityIssuer:       getEnv("IDENTITY_ISSUER", ""),
		IdentityAuthURL:      getEnv("IDENTITY_AUTH_URL", ""),
		IdentityTokenURL:     getEnv("IDENTITY_TOKEN_URL", ""),
		IdentityClientID:     getEnv("IDENTITY_CLIENT_ID", ""),
		IdentityClientSecret: getEnv("IDENTITY_CLIENT_SECRET", ""),
		IdentityRedirectURL:  getEnv("IDENTITY_REDIRECT_URL", "http://localhost:8080/api/auth/callback"),
		IdentitySigningKey:   getEnv("IDENTITY_SIGNING_KEY", ""),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
