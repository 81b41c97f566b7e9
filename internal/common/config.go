package common

import (
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR OCRConfig
	LLM LLMConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	// PrimaryLanguages is the bilingual hint tried first, e.g. "fin+eng".
	PrimaryLanguages string
	// FallbackLanguage is tried when the primary set is unavailable.
	FallbackLanguage string
	TessdataDir      string
}

// LLMConfig holds language-model configuration
type LLMConfig struct {
	// ServiceType selects the backend: "openai" or "ollama".
	ServiceType string
	APIKey      string
	Model       string
	BaseURL     string
	// OllamaHost is the local engine address, passed explicitly per client
	// rather than through the process environment.
	OllamaHost  string
	OllamaModel string
	Timeout     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			PrimaryLanguages: getEnv("OCR_LANGUAGES", "fin+eng"),
			FallbackLanguage: getEnv("OCR_FALLBACK_LANGUAGE", "eng"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
		},
		LLM: LLMConfig{
			ServiceType: getEnv("AI_SERVICE", "openai"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			OllamaHost:  getEnv("OLLAMA_HOST", "http://localhost:11434"),
			OllamaModel: getEnv("OLLAMA_MODEL", "llama3.2"),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.LLM.ServiceType {
	case "openai":
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for the openai service", ErrConfiguration)
		}
	case "ollama":
		// no credential required; host defaults to localhost
	default:
		return NewAppError("CONFIG_ERROR", "AI_SERVICE must be one of: openai, ollama", ErrConfiguration)
	}
	return nil
}
