package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// AI provider configuration. Primary is a DeepSeek-style endpoint; the
	// fallback is any OpenAI-compatible chat-completions endpoint and is
	// optional (empty URL disables cross-provider fallback entirely).
	AIPrimaryURL    string
	AIPrimaryKey    string
	AIPrimaryModel  string
	AIFallbackURL   string
	AIFallbackKey   string
	AIFallbackModel string

	// External exercise catalog
	CatalogURL string

	// CORS
	AllowedOrigins []string
}

// LoadConfig creates a new Config instance from environment variables,
// falling back to *_FILE secret paths for sensitive values.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getSecret("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "gymbro"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getSecret("REDIS_PASSWORD"),
		RedisURL:      getEnv("REDIS_URL", ""),

		JWTSecret: getSecret("JWT_SECRET"),

		AIPrimaryURL:    getEnv("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		AIPrimaryKey:    getSecret("DEEPSEEK_API_KEY"),
		AIPrimaryModel:  getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		AIFallbackURL:   getEnv("OPENAI_API_URL", ""),
		AIFallbackKey:   getSecret("OPENAI_API_KEY"),
		AIFallbackModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		CatalogURL: getEnv("EXERCISE_CATALOG_URL", ""),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	var missing []string
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.AIPrimaryKey == "" {
		missing = append(missing, "DEEPSEEK_API_KEY")
	}
	if cfg.AIFallbackURL != "" && cfg.AIFallbackKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required configuration not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv reads an environment variable with a default.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getSecret reads a sensitive value from KEY, then KEY_FILE, then the
// Docker secrets directory.
func getSecret(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if file := os.Getenv(key + "_FILE"); file != "" {
		if data, err := os.ReadFile(file); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	name := strings.ToLower(key)
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
