package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/workflow"
)

const providerOllama = "ollama"

// OllamaMetadataSynthesizer получает метаданные вещи от локальной модели Ollama.
type OllamaMetadataSynthesizer struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

// NewOllamaMetadataSynthesizer создает клиент Ollama. baseURL указывается без суффикса /v1.
func NewOllamaMetadataSynthesizer(baseURL, model string, timeout time.Duration, logger *zap.Logger) (*OllamaMetadataSynthesizer, error) {
	ollamaBaseURL := strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")
	parsedURL, err := url.Parse(ollamaBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Ollama base URL '%s': %w", ollamaBaseURL, err)
	}
	return &OllamaMetadataSynthesizer{
		client: api.NewClient(parsedURL, &http.Client{Timeout: timeout}),
		model:  model,
		logger: logger.Named("OllamaMetadata"),
	}, nil
}

// Synthesize запрашивает JSON с описанием вещи в режиме format=json.
func (s *OllamaMetadataSynthesizer) Synthesize(ctx context.Context, req workflow.GenerationRequest) (models.ClothingItemMetadata, error) {
	// Без стрима колбэк вызывается ровно один раз
	stream := false
	chatReq := &api.ChatRequest{
		Model: s.model,
		Messages: []api.Message{
			{Role: "system", Content: metadataSystemPrompt},
			{Role: "user", Content: metadataUserPrompt(req)},
		},
		Stream:  &stream,
		Format:  json.RawMessage(`"json"`),
		Options: map[string]interface{}{"temperature": 0.8},
	}

	start := time.Now()
	var resp api.ChatResponse
	err := s.client.Chat(ctx, chatReq, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(start)
	observeRequest(providerOllama, kindMetadata, duration.Seconds(), err)
	if err != nil {
		s.logger.Error("Ollama chat failed", zap.Duration("duration", duration), zap.Error(err))
		return models.ClothingItemMetadata{}, translateError(err)
	}
	if strings.TrimSpace(resp.Message.Content) == "" {
		aiRequestsTotal.WithLabelValues(providerOllama, kindMetadata, statusEmptyResponse).Inc()
		return models.ClothingItemMetadata{}, translateError(workflow.ErrGenerationFailed)
	}
	// Ollama сообщает токены промпта в prompt_eval_count
	if resp.PromptEvalCount > 0 {
		aiPromptTokens.WithLabelValues(s.model).Observe(float64(resp.PromptEvalCount))
	}

	s.logger.Debug("Ollama metadata received",
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", resp.PromptEvalCount),
		zap.Int("completion_tokens", resp.EvalCount),
	)
	return parseMetadata(resp.Message.Content)
}
