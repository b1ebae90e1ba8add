package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI       = "openai"
	ProviderOpenAICompat = "openaicompat"

	DefaultProvider = ProviderOpenAICompat
	DefaultBaseURL  = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel    = "gemini-2.0-flash-001"
	DefaultPort     = "8080"
)

// Config holds all environment configuration
type Config struct {
	// Server
	Port string

	// Model service
	APIKey   string
	Provider string // "openaicompat" or "openai"
	BaseURL  string
	Model    string

	// Logging
	Debug      bool
	RedactLogs bool
}

// Error reports a missing or invalid configuration value
type Error struct {
	Key     string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Message)
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}

// Load reads .env files (if they exist) into the process environment and
// builds a validated Config from it.
func Load(files ...string) (Config, error) {
	// Missing .env files are fine; real environment variables still apply
	_ = godotenv.Load(files...)

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() Config {
	apiKey := getEnv("GOOGLE_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("GEMINI_API_KEY", "")
	}

	return Config{
		Port:       getEnv("PORT", DefaultPort),
		APIKey:     apiKey,
		Provider:   strings.ToLower(getEnv("GUARDIAN_PROVIDER", DefaultProvider)),
		BaseURL:    getEnv("GUARDIAN_BASE_URL", DefaultBaseURL),
		Model:      getEnv("GUARDIAN_MODEL", DefaultModel),
		Debug:      getBool("GUARDIAN_DEBUG", false),
		RedactLogs: getBool("GUARDIAN_REDACT_LOGS", true),
	}
}

// Validate checks required fields
func (c Config) Validate() error {
	if c.APIKey == "" {
		return &Error{Key: "GOOGLE_API_KEY", Message: "not found in environment variables"}
	}
	switch c.Provider {
	case ProviderOpenAI, ProviderOpenAICompat:
	default:
		return &Error{Key: "GUARDIAN_PROVIDER", Message: fmt.Sprintf("unknown provider %q", c.Provider)}
	}
	if c.Model == "" {
		return &Error{Key: "GUARDIAN_MODEL", Message: "must not be empty"}
	}
	return nil
}

// Addr returns the listen address for the web server
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
