package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/workflow"
)

const (
	providerSana   = "sana"
	sanaImageRatio = "1:1"
)

// SanaConfig - настройки локального SANA сервера.
type SanaConfig struct {
	BaseURL       string
	Timeout       time.Duration
	SavePath      string
	PublicBaseURL string
	PromptSuffix  string
}

// SanaImageRenderer генерирует изображение на SANA сервере, сохраняет JPEG
// в общий каталог и возвращает его публичный URL.
type SanaImageRenderer struct {
	cfg    SanaConfig
	client *http.Client
	logger *zap.Logger
}

// sanaAPIRequest - тело запроса к SANA API.
type sanaAPIRequest struct {
	Prompt string `json:"prompt"`
	Ratio  string `json:"ratio"`
}

// NewSanaImageRenderer проверяет настройки и создает рендерер.
func NewSanaImageRenderer(cfg SanaConfig, logger *zap.Logger) (*SanaImageRenderer, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("SANA server base URL (SANA_SERVER_BASE_URL) is not configured")
	}
	if cfg.SavePath == "" {
		return nil, errors.New("image save path (IMAGE_SAVE_PATH) is not configured")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("image public base URL (IMAGE_PUBLIC_BASE_URL) is not configured")
	}
	return &SanaImageRenderer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("SanaImage"),
	}, nil
}

// Render генерирует изображение и возвращает URL сохраненного файла.
func (r *SanaImageRenderer) Render(ctx context.Context, req workflow.GenerationRequest, meta models.ClothingItemMetadata) (string, error) {
	// Имя файла не связано с ID вещи: один и тот же item может перегенерироваться
	reference := uuid.NewString()
	log := r.logger.With(zap.String("session_id", req.SessionID), zap.String("image_reference", reference))

	start := time.Now()
	imageData, err := r.callSanaAPI(ctx, imagePrompt(meta, r.cfg.PromptSuffix))
	observeRequest(providerSana, kindImage, time.Since(start).Seconds(), err)
	if err != nil {
		log.Error("SANA API call failed", zap.Error(err))
		return "", translateError(err)
	}

	// SANA всегда отдает JPEG
	fileName := reference + ".jpg"
	filePath := filepath.Join(r.cfg.SavePath, fileName)
	if err := os.WriteFile(filePath, imageData, 0o644); err != nil {
		log.Error("Failed to save image to file", zap.String("path", filePath), zap.Error(err))
		return "", fmt.Errorf("%w: failed to save image: %v", workflow.ErrGenerationFailed, err)
	}

	imageURL := strings.TrimSuffix(r.cfg.PublicBaseURL, "/") + "/" + fileName
	log.Info("Image saved", zap.String("path", filePath), zap.String("url", imageURL), zap.Int("size_bytes", len(imageData)))
	return imageURL, nil
}

func (r *SanaImageRenderer) callSanaAPI(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(sanaAPIRequest{Prompt: prompt, Ratio: sanaImageRatio})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	endpointURL := strings.TrimSuffix(r.cfg.BaseURL, "/") + "/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "image/*")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	// Тело читаем целиком: при ошибке там текст, при успехе картинка
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: API returned empty data", workflow.ErrGenerationFailed)
	}
	return data, nil
}
