package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fadilmartias/hiring-assistant/internal/config"
)

// ErrUnavailable marks failures of the inference backend itself: transport
// errors, non-2xx answers, empty payloads or an open circuit breaker.
// Callers may substitute placeholder results when they see it.
var ErrUnavailable = errors.New("inference service unavailable")

type ChatRequest struct {
	System string
	Prompt string
	// JSON asks the model to answer with a single JSON object.
	JSON bool
}

type InferenceService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
	Provider() string
	EmbedModel() string
	ChatModel() string
}

// NewInferenceService builds the provider selected by cfg.Provider.
func NewInferenceService(ctx context.Context, cfg *config.InferenceConfig, log *zap.Logger) (InferenceService, error) {
	switch cfg.Provider {
	case config.ProviderOllama, "":
		return NewOllamaService(cfg, log), nil
	case config.ProviderGemini:
		return NewGeminiService(ctx, config.LoadGeminiConfig(), cfg, log)
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Provider)
	}
}
