package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	GeminiAPIKey string
	GroqAPIKey   string

	// SessionSecret signs the session tokens issued by the HTTP surface.
	SessionSecret string

	// DefaultBackend is the text-generation backend new sessions start on.
	DefaultBackend string

	MetricsDBPath string

	// RedisAddr, when set, switches the profile/plan/chat stores from
	// in-memory maps to Redis.
	RedisAddr string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if groqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable not set")
	}

	defaultBackend := os.Getenv("DEFAULT_BACKEND")
	if defaultBackend == "" {
		defaultBackend = "gemini"
	}

	metricsDBPath := os.Getenv("METRICS_DB_PATH")
	if metricsDBPath == "" {
		metricsDBPath = "data/metrics.db"
	}

	return &Config{
		GeminiAPIKey:   geminiAPIKey,
		GroqAPIKey:     groqAPIKey,
		SessionSecret:  sessionSecret,
		DefaultBackend: defaultBackend,
		MetricsDBPath:  metricsDBPath,
		RedisAddr:      os.Getenv("REDIS_ADDR"),
	}, nil
}
