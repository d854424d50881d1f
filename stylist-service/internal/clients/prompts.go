package clients

import (
	"encoding/json"
	"fmt"
	"strings"

	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/workflow"
)

const metadataSystemPrompt = `You are a fashion designer assistant. Invent ONE clothing item for the requested category, occasion and style.
Answer with a single JSON object and nothing else, using exactly these keys:
{"name": string, "description": string, "color": string, "material": string, "pattern": string, "tags": [string], "seasons": [string]}
Seasons must be chosen from: spring, summer, autumn, winter, all-season. Keep tags short and lowercase.`

// metadataUserPrompt описывает запрос пользователя для модели.
func metadataUserPrompt(req workflow.GenerationRequest) string {
	language := "Spanish"
	if req.Locale == workflow.LocaleEN {
		language = "English"
	}
	return fmt.Sprintf("Category: %s\nOccasion: %s\nStyle: %s\nWrite name and description in %s.",
		req.Category, req.Occasion, req.Style, language)
}

// imagePrompt строит промпт для генерации изображения по метаданным.
func imagePrompt(meta models.ClothingItemMetadata, suffix string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A single %s %s", meta.Color, meta.Category)
	if meta.Style != "" {
		fmt.Fprintf(&b, " in %s style", strings.ReplaceAll(meta.Style, "_", " "))
	}
	if meta.Material != "" {
		fmt.Fprintf(&b, ", made of %s", meta.Material)
	}
	if meta.Pattern != "" {
		fmt.Fprintf(&b, ", %s pattern", meta.Pattern)
	}
	if meta.Description != "" {
		fmt.Fprintf(&b, ". %s", meta.Description)
	}
	b.WriteString(suffix)
	return b.String()
}

// parseMetadata извлекает JSON объект из ответа модели. Модели иногда
// оборачивают ответ в markdown блок или добавляют текст вокруг.
func parseMetadata(raw string) (models.ClothingItemMetadata, error) {
	var meta models.ClothingItemMetadata
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return meta, fmt.Errorf("%w: response does not contain a JSON object", workflow.ErrGenerationFailed)
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &meta); err != nil {
		return meta, fmt.Errorf("%w: invalid metadata JSON: %v", workflow.ErrGenerationFailed, err)
	}
	return meta, nil
}
