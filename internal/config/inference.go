package config

import (
	"strings"
	"sync"
	"time"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

type InferenceConfig struct {
	Provider         string
	OllamaURL        string
	OllamaChatModel  string
	OllamaEmbedModel string
	Timeout          time.Duration
	MaxRetries       int
	PlaceholderScore float64
}

var (
	inferenceConfig *InferenceConfig
	inferenceOnce   sync.Once
)

func LoadInferenceConfig() *InferenceConfig {
	inferenceOnce.Do(func() {
		inferenceConfig = &InferenceConfig{
			Provider:         strings.ToLower(getString("INFERENCE_PROVIDER", ProviderOllama)),
			OllamaURL:        strings.TrimRight(getString("OLLAMA_URL", "http://localhost:11434"), "/"),
			OllamaChatModel:  getString("OLLAMA_CHAT_MODEL", "deepseek-r1:8b"),
			OllamaEmbedModel: getString("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
			Timeout:          getDuration("INFERENCE_TIMEOUT", 120*time.Second),
			MaxRetries:       getInt("INFERENCE_MAX_RETRIES", 1),
			PlaceholderScore: getFloat("PLACEHOLDER_SCORE", 0.75),
		}
	})
	return inferenceConfig
}
