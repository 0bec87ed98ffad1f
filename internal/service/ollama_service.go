package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/fadilmartias/hiring-assistant/internal/config"
	"github.com/fadilmartias/hiring-assistant/internal/logger"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OllamaService struct {
	client     *resty.Client
	chatModel  string
	embedModel string
	log        *zap.Logger
}

func NewOllamaService(cfg *config.InferenceConfig, log *zap.Logger) *OllamaService {
	client := resty.New().
		SetBaseURL(cfg.OllamaURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(cfg.MaxRetries).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	return &OllamaService{
		client:     client,
		chatModel:  cfg.OllamaChatModel,
		embedModel: cfg.OllamaEmbedModel,
		log:        logger.WithProvider(log, config.ProviderOllama, cfg.OllamaChatModel),
	}
}

func (s *OllamaService) Provider() string   { return config.ProviderOllama }
func (s *OllamaService) EmbedModel() string { return s.embedModel }
func (s *OllamaService) ChatModel() string  { return s.chatModel }

func (s *OllamaService) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}

	body, err := s.post(ctx, "/api/embeddings", map[string]any{
		"model":  s.embedModel,
		"prompt": text,
	})
	if err != nil {
		return nil, err
	}

	values := gjson.GetBytes(body, "embedding").Array()
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding from %s", ErrUnavailable, s.embedModel)
	}
	vec := make([]float32, len(values))
	for i, v := range values {
		vec[i] = float32(v.Float())
	}
	return vec, nil
}

func (s *OllamaService) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload := map[string]any{
		"model":    s.chatModel,
		"messages": messages,
		"stream":   false,
	}
	if req.JSON {
		payload["format"] = "json"
	}

	body, err := s.post(ctx, "/api/chat", payload)
	if err != nil {
		return "", err
	}

	content := gjson.GetBytes(body, "message.content")
	if !content.Exists() {
		return "", fmt.Errorf("%w: no message in chat response", ErrUnavailable)
	}
	return StripThinking(content.String()), nil
}

func (s *OllamaService) post(ctx context.Context, path string, payload any) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(path)
	if err != nil {
		s.log.Warn("ollama request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		s.log.Warn("ollama returned an error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.String("body", logger.TruncateForLog(resp.String(), 300)),
		)
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnavailable, path, resp.StatusCode())
	}
	s.log.Debug("ollama response", zap.String("path", path), zap.String("body", logger.TruncateForLog(resp.String(), 300)))
	return resp.Body(), nil
}

// StripThinking drops the <think> section reasoning models prepend to
// their answer.
func StripThinking(s string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(s, ""))
}
