package llm

import (
	"log/slog"

	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/docchamp/docchamp/internal/common"
)

// NewService builds the Service for the configured backend. The local engine
// host is passed explicitly to the client; the process environment is never
// consulted or mutated here.
func NewService(cfg common.LLMConfig, logger *slog.Logger) (Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.ServiceType {
	case BackendOpenAI:
		if cfg.APIKey == "" {
			return nil, common.NewAppError("CONFIG_ERROR",
				"an api key is required for the openai backend", common.ErrConfiguration)
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, common.NewAppError("CONFIG_ERROR", err.Error(), common.ErrConfiguration)
		}
		return &client{model: model, backend: BackendOpenAI, modelName: cfg.Model, log: logger}, nil

	case BackendOllama:
		model, err := ollama.New(
			ollama.WithModel(cfg.OllamaModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, common.NewAppError("CONFIG_ERROR", err.Error(), common.ErrConfiguration)
		}
		return &client{model: model, backend: BackendOllama, modelName: cfg.OllamaModel, host: cfg.OllamaHost, log: logger}, nil

	default:
		return nil, common.NewAppError("CONFIG_ERROR",
			"unknown backend "+cfg.ServiceType+", expected openai or ollama", common.ErrConfiguration)
	}
}
