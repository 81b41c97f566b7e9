package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"OCR_LANGUAGES", "OCR_FALLBACK_LANGUAGE", "TESSDATA_PREFIX",
		"AI_SERVICE", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"OLLAMA_HOST", "OLLAMA_MODEL", "LLM_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "fin+eng", cfg.OCR.PrimaryLanguages)
	assert.Equal(t, "eng", cfg.OCR.FallbackLanguage)
	assert.Equal(t, "openai", cfg.LLM.ServiceType)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.OllamaHost)
	assert.Equal(t, "llama3.2", cfg.LLM.OllamaModel)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("AI_SERVICE", "ollama")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	t.Setenv("LLM_TIMEOUT", "45s")

	cfg := LoadConfig()
	assert.Equal(t, "ollama", cfg.LLM.ServiceType)
	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.OllamaHost)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
}

func TestLoadConfigBadDurationFallsBack(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "soon")
	cfg := LoadConfig()
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
}

func TestValidateOpenAIRequiresKey(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{ServiceType: "openai"}}
	assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)

	cfg.LLM.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidateOllamaNeedsNoKey(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{ServiceType: "ollama"}}
	assert.NoError(t, cfg.Validate())
}

func TestValidateUnknownService(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{ServiceType: "vertex"}}
	assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)
}
