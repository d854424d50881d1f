package clients

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/config"
	"outfit-server/stylist-service/internal/workflow"
)

// MetadataSynthesizer придумывает описание вещи.
type MetadataSynthesizer interface {
	Synthesize(ctx context.Context, req workflow.GenerationRequest) (models.ClothingItemMetadata, error)
}

// ImageRenderer рисует вещь и возвращает публичный URL изображения.
type ImageRenderer interface {
	Render(ctx context.Context, req workflow.GenerationRequest, meta models.ClothingItemMetadata) (string, error)
}

// ItemGenerator реализует workflow.Generator: сначала метаданные, затем изображение.
type ItemGenerator struct {
	metadata MetadataSynthesizer
	images   ImageRenderer
	logger   *zap.Logger
}

// NewItemGenerator собирает генератор из готовых частей.
func NewItemGenerator(metadata MetadataSynthesizer, images ImageRenderer, logger *zap.Logger) *ItemGenerator {
	return &ItemGenerator{
		metadata: metadata,
		images:   images,
		logger:   logger.Named("ItemGenerator"),
	}
}

// NewItemGeneratorFromConfig выбирает провайдеров по конфигурации.
func NewItemGeneratorFromConfig(cfg *config.Config, logger *zap.Logger) (*ItemGenerator, error) {
	var metadata MetadataSynthesizer
	switch strings.ToLower(cfg.AIProvider) {
	case config.ProviderOpenAI:
		metadata = NewOpenAIMetadataSynthesizer(newOpenAIClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AITimeout), cfg.AIModel, logger)
	case config.ProviderOllama:
		var err error
		metadata, err = NewOllamaMetadataSynthesizer(cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout, logger)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown AI provider '%s'", cfg.AIProvider)
	}

	var images ImageRenderer
	switch strings.ToLower(cfg.ImageProvider) {
	case config.ProviderOpenAI:
		images = NewOpenAIImageRenderer(newOpenAIClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.SanaTimeout),
			cfg.ImageModel, cfg.ImageSize, cfg.PromptStyleSuffix, logger)
	case config.ProviderSana:
		var err error
		images, err = NewSanaImageRenderer(SanaConfig{
			BaseURL:       cfg.SanaBaseURL,
			Timeout:       cfg.SanaTimeout,
			SavePath:      cfg.ImageSavePath,
			PublicBaseURL: cfg.ImagePublicBaseURL,
			PromptSuffix:  cfg.PromptStyleSuffix,
		}, logger)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown image provider '%s'", cfg.ImageProvider)
	}

	logger.Info("Item generator configured",
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("ai_model", cfg.AIModel),
		zap.String("image_provider", cfg.ImageProvider),
	)
	return NewItemGenerator(metadata, images, logger), nil
}

// GenerateItem генерирует вещь. Ошибки приводятся к ошибкам workflow.
func (g *ItemGenerator) GenerateItem(ctx context.Context, req workflow.GenerationRequest) (*workflow.GeneratedItem, error) {
	log := g.logger.With(
		zap.String("session_id", req.SessionID),
		zap.String("category", req.Category),
		zap.String("occasion", req.Occasion),
		zap.String("style", req.Style),
	)

	meta, err := g.metadata.Synthesize(ctx, req)
	if err != nil {
		log.Warn("Metadata synthesis failed", zap.Error(err))
		return nil, translateError(err)
	}
	// Модель может пропустить поля, добиваем их из параметров сессии
	meta.ApplyDefaults(req.Category, req.Occasion, req.Style)

	// Картинка рисуется по уже готовым метаданным
	imageURL, err := g.images.Render(ctx, req, meta)
	if err != nil {
		log.Warn("Image rendering failed", zap.Error(err))
		return nil, translateError(err)
	}

	log.Info("Item generated", zap.String("name", meta.Name), zap.String("image_url", imageURL))
	return &workflow.GeneratedItem{Metadata: meta, ImageURL: imageURL}, nil
}

var _ workflow.Generator = (*ItemGenerator)(nil)
