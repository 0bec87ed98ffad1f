package config

import (
	"sync"
)

type GeminiConfig struct {
	APIKey     string
	ChatModel  string
	EmbedModel string
	// Dimensions truncates gemini embeddings so they fit the same vector
	// column as the ollama ones.
	Dimensions int
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{
			APIKey:     getString("GEMINI_API_KEY", ""),
			ChatModel:  getString("GEMINI_CHAT_MODEL", "gemini-2.5-flash"),
			EmbedModel: getString("GEMINI_EMBED_MODEL", "gemini-embedding-001"),
			Dimensions: getInt("EMBEDDING_DIMENSIONS", 768),
		}
	})
	return geminiConfig
}
