package clients

import (
	"context"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/workflow"
)

const providerOpenAI = "openai"

func newOpenAIClient(apiKey, baseURL string, timeout time.Duration) *openaigo.Client {
	cfg := openaigo.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	// Общий таймаут HTTP; сама генерация дополнительно ограничена контекстом движка
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openaigo.NewClientWithConfig(cfg)
}

// OpenAIMetadataSynthesizer получает метаданные вещи через chat completions в режиме JSON.
type OpenAIMetadataSynthesizer struct {
	client *openaigo.Client
	model  string
	tokens *tokenCounter
	logger *zap.Logger
}

// NewOpenAIMetadataSynthesizer создает синтезатор поверх готового клиента.
func NewOpenAIMetadataSynthesizer(client *openaigo.Client, model string, logger *zap.Logger) *OpenAIMetadataSynthesizer {
	return &OpenAIMetadataSynthesizer{
		client: client,
		model:  model,
		tokens: newTokenCounter(model),
		logger: logger.Named("OpenAIMetadata"),
	}
}

// Synthesize запрашивает у модели JSON с описанием вещи.
func (s *OpenAIMetadataSynthesizer) Synthesize(ctx context.Context, req workflow.GenerationRequest) (models.ClothingItemMetadata, error) {
	userPrompt := metadataUserPrompt(req)
	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: s.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: metadataSystemPrompt},
			{Role: openaigo.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openaigo.ChatCompletionResponseFormat{Type: openaigo.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0.8, // немного разнообразия в названиях и цветах
	})
	duration := time.Since(start)
	observeRequest(providerOpenAI, kindMetadata, duration.Seconds(), err)
	if err != nil {
		s.logger.Error("OpenAI chat completion failed", zap.Duration("duration", duration), zap.Error(err))
		return models.ClothingItemMetadata{}, translateError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		aiRequestsTotal.WithLabelValues(providerOpenAI, kindMetadata, statusEmptyResponse).Inc()
		return models.ClothingItemMetadata{}, translateError(workflow.ErrGenerationFailed)
	}

	// Совместимые API не всегда возвращают usage, тогда считаем сами
	promptTokens := resp.Usage.PromptTokens
	if promptTokens == 0 {
		promptTokens = s.tokens.Count(metadataSystemPrompt, userPrompt)
	}
	if promptTokens > 0 {
		aiPromptTokens.WithLabelValues(s.model).Observe(float64(promptTokens))
	}

	s.logger.Debug("OpenAI metadata received",
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", promptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return parseMetadata(resp.Choices[0].Message.Content)
}

// OpenAIImageRenderer генерирует изображение через images API и возвращает его URL.
type OpenAIImageRenderer struct {
	client       *openaigo.Client
	model        string
	size         string
	promptSuffix string
	logger       *zap.Logger
}

// NewOpenAIImageRenderer создает рендерер изображений OpenAI.
func NewOpenAIImageRenderer(client *openaigo.Client, model, size, promptSuffix string, logger *zap.Logger) *OpenAIImageRenderer {
	if size == "" {
		size = openaigo.CreateImageSize1024x1024
	}
	return &OpenAIImageRenderer{
		client:       client,
		model:        model,
		size:         size,
		promptSuffix: promptSuffix,
		logger:       logger.Named("OpenAIImage"),
	}
}

// Render запрашивает одно изображение в формате URL.
func (r *OpenAIImageRenderer) Render(ctx context.Context, _ workflow.GenerationRequest, meta models.ClothingItemMetadata) (string, error) {
	start := time.Now()
	resp, err := r.client.CreateImage(ctx, openaigo.ImageRequest{
		Prompt:         imagePrompt(meta, r.promptSuffix),
		Model:          r.model,
		N:              1,
		Size:           r.size,
		ResponseFormat: openaigo.CreateImageResponseFormatURL,
	})
	duration := time.Since(start)
	observeRequest(providerOpenAI, kindImage, duration.Seconds(), err)
	if err != nil {
		r.logger.Error("OpenAI image generation failed", zap.Duration("duration", duration), zap.Error(err))
		return "", translateError(err)
	}
	// URL от OpenAI временный, клиент забирает картинку сразу
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		aiRequestsTotal.WithLabelValues(providerOpenAI, kindImage, statusEmptyResponse).Inc()
		return "", translateError(workflow.ErrGenerationFailed)
	}
	return resp.Data[0].URL, nil
}
