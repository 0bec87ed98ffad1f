package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/fadilmartias/hiring-assistant/internal/config"
	"github.com/fadilmartias/hiring-assistant/internal/logger"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

const (
	maxEmbedChars   = 10000
	breakerCooldown = 30 * time.Second
)

type GeminiService struct {
	client            *genai.Client
	chatModel         string
	embedModel        string
	dimensions        int
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestTimeout    time.Duration
	consecutiveErrors atomic.Int32
	circuitBreakerMax int32
	breakerCooldown   time.Duration
	// openedAt is the unix-nano time the breaker last tripped.
	openedAt atomic.Int64
	// probing is set while a half-open trial call is in flight.
	probing atomic.Bool
	now     func() time.Time
	log     *zap.Logger
}

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig, inf *config.InferenceConfig, log *zap.Logger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiService{
		client:            client,
		chatModel:         cfg.ChatModel,
		embedModel:        cfg.EmbedModel,
		dimensions:        cfg.Dimensions,
		MaxRetries:        max(inf.MaxRetries, 0),
		BaseDelay:         time.Second,
		MaxDelay:          30 * time.Second,
		RequestTimeout:    inf.Timeout,
		circuitBreakerMax: 5,
		breakerCooldown:   breakerCooldown,
		log:               logger.WithProvider(log, config.ProviderGemini, cfg.ChatModel),
	}, nil
}

func (s *GeminiService) Provider() string   { return config.ProviderGemini }
func (s *GeminiService) EmbedModel() string { return s.embedModel }
func (s *GeminiService) ChatModel() string  { return s.chatModel }

func (s *GeminiService) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}
	if req.System != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		genConfig.ResponseMIMEType = "application/json"
	}

	var text string
	err := s.withRetry(ctx, "chat", func(ctx context.Context) error {
		result, err := s.client.Models.GenerateContent(ctx, s.chatModel, genai.Text(req.Prompt), genConfig)
		if err != nil {
			return err
		}
		if err := validateGenerateResponse(result); err != nil {
			return fmt.Errorf("%w: invalid response: %v", ErrUnavailable, err)
		}
		text = result.Text()
		return nil
	})
	if err != nil {
		return "", err
	}
	return StripThinking(text), nil
}

func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	if len(trimmed) > maxEmbedChars {
		s.log.Warn("embedding input truncated", zap.Int("length", len(trimmed)))
		trimmed = util.Truncate(trimmed, maxEmbedChars)
	}

	content := []*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)}
	var embedConfig *genai.EmbedContentConfig
	if s.dimensions > 0 {
		embedConfig = &genai.EmbedContentConfig{OutputDimensionality: genai.Ptr(int32(s.dimensions))}
	}

	var vec []float32
	err := s.withRetry(ctx, "embed", func(ctx context.Context) error {
		result, err := s.client.Models.EmbedContent(ctx, s.embedModel, content, embedConfig)
		if err != nil {
			return err
		}
		vec, err = validateEmbeddingResponse(result)
		if err != nil {
			return fmt.Errorf("%w: invalid embedding response: %v", ErrUnavailable, err)
		}
		return nil
	})
	return vec, err
}

// withRetry runs call with exponential backoff and feeds the circuit
// breaker. Retryable failures that exhaust the budget become ErrUnavailable.
// Only failures that are the backend's fault count toward the breaker.
func (s *GeminiService) withRetry(ctx context.Context, op string, call func(context.Context) error) error {
	if err := s.allow(); err != nil {
		return err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.log.Info("retrying gemini call",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", s.MaxRetries),
				zap.Duration("delay", delay),
			)
			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				s.recordFailure()
				return fmt.Errorf("%w: context done during retry: %v", ErrUnavailable, timeoutCtx.Err())
			}
		}

		err := call(timeoutCtx)
		if err == nil {
			s.recordSuccess()
			return nil
		}
		lastErr = err

		if errors.Is(err, ErrUnavailable) {
			break
		}
		if !isRetryableError(err) {
			s.log.Warn("gemini call failed", zap.String("op", op), zap.Error(err))
			if isUnavailableError(err) {
				s.recordFailure()
				return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
			}
			// The backend answered; the request itself was rejected.
			s.recordSuccess()
			return fmt.Errorf("gemini %s failed: %w", op, err)
		}
		s.log.Warn("retryable gemini error", zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(err))
	}

	s.recordFailure()
	if errors.Is(lastErr, ErrUnavailable) {
		return lastErr
	}
	return fmt.Errorf("%w: max retries (%d) exceeded for %s: %v", ErrUnavailable, s.MaxRetries, op, lastErr)
}

// allow rejects calls while the breaker is open. Once the cooldown has
// passed a single trial call is let through; its outcome closes or
// re-opens the breaker.
func (s *GeminiService) allow() error {
	n := s.consecutiveErrors.Load()
	if n < s.circuitBreakerMax {
		return nil
	}
	openedAt := time.Unix(0, s.openedAt.Load())
	if s.clock().Sub(openedAt) >= s.breakerCooldown && s.probing.CompareAndSwap(false, true) {
		s.log.Info("circuit breaker half-open, trying one call")
		return nil
	}
	return fmt.Errorf("%w: circuit breaker open after %d consecutive errors", ErrUnavailable, n)
}

func (s *GeminiService) recordSuccess() {
	if prev := s.consecutiveErrors.Swap(0); prev >= s.circuitBreakerMax {
		s.log.Info("circuit breaker closed")
	}
	s.probing.Store(false)
}

func (s *GeminiService) recordFailure() {
	if n := s.consecutiveErrors.Add(1); n >= s.circuitBreakerMax {
		s.openedAt.Store(s.clock().UnixNano())
		if n == s.circuitBreakerMax || s.probing.Load() {
			s.log.Warn("circuit breaker open", zap.Int32("consecutive_errors", n), zap.Duration("cooldown", s.breakerCooldown))
		}
	}
	s.probing.Store(false)
}

func (s *GeminiService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// calculateBackoff doubles BaseDelay per attempt up to MaxDelay, with up to
// 25% jitter either way.
func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}
	jitter := int64(delay / 4)
	if jitter <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int64N(2*jitter+1)-jitter)
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if code, ok := apiErrorCode(err); ok {
		return code == 429 || code >= 500
	}

	msg := err.Error()
	for _, s := range []string{"connection refused", "connection reset", "timeout", "temporary failure", "EOF"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// isUnavailableError reports failures that are the backend's fault rather
// than the request's.
func isUnavailableError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	code, ok := apiErrorCode(err)
	return ok && (code == 429 || code >= 500)
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	switch {
	case resp == nil:
		return fmt.Errorf("response is nil")
	case len(resp.Candidates) == 0:
		return fmt.Errorf("no candidates in response")
	case resp.Candidates[0].Content == nil:
		return fmt.Errorf("candidate content is nil")
	case len(resp.Candidates[0].Content.Parts) == 0:
		return fmt.Errorf("no parts in content")
	}
	return nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	for i, val := range values {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return values, nil
}
