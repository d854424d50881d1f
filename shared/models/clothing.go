package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Категории одежды. Каждая категория соответствует слоту образа.
const (
	CategoryTop    = "top"
	CategoryBottom = "bottom"
	CategoryShoes  = "shoes"
)

// AllCategories возвращает категории в порядке слотов образа.
func AllCategories() []string {
	return []string{CategoryTop, CategoryBottom, CategoryShoes}
}

// IsValidCategory проверяет, что категория входит в закрытый список.
func IsValidCategory(category string) bool {
	switch category {
	case CategoryTop, CategoryBottom, CategoryShoes:
		return true
	}
	return false
}

const (
	SeasonSpring    = "spring"
	SeasonSummer    = "summer"
	SeasonAutumn    = "autumn"
	SeasonWinter    = "winter"
	SeasonAllSeason = "all-season"

	DefaultColor = "neutral"
)

var seasonAliases = map[string]string{
	"spring":     SeasonSpring,
	"summer":     SeasonSummer,
	"autumn":     SeasonAutumn,
	"fall":       SeasonAutumn,
	"winter":     SeasonWinter,
	"all-season": SeasonAllSeason,
	"all season": SeasonAllSeason,
	"all":        SeasonAllSeason,
	"primavera":  SeasonSpring,
	"verano":     SeasonSummer,
	"otono":      SeasonAutumn,
	"otoño":      SeasonAutumn,
	"invierno":   SeasonWinter,
}

// ClothingItemMetadata - описание предмета одежды, полученное от AI.
// Все поля, кроме Category, опциональны; ApplyDefaults заполняет пропуски.
type ClothingItemMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Color       string   `json:"color"`
	Material    string   `json:"material,omitempty"`
	Pattern     string   `json:"pattern,omitempty"`
	Tags        []string `json:"tags"`
	Seasons     []string `json:"seasons"`
	Occasion    string   `json:"occasion,omitempty"`
	Style       string   `json:"style,omitempty"`
}

// ApplyDefaults нормализует метаданные: категория всегда берется из запроса,
// цвет и сезоны получают значения по умолчанию, теги приводятся к нижнему регистру
// без дублей и включают повод и стиль.
func (m *ClothingItemMetadata) ApplyDefaults(category, occasion, style string) {
	m.Category = category
	if occasion != "" {
		m.Occasion = occasion
	}
	if style != "" {
		m.Style = style
	}

	m.Color = strings.ToLower(strings.TrimSpace(m.Color))
	if m.Color == "" {
		m.Color = DefaultColor
	}

	seasons := make([]string, 0, len(m.Seasons))
	seenSeasons := make(map[string]struct{}, len(m.Seasons))
	for _, s := range m.Seasons {
		canonical, ok := seasonAliases[strings.ToLower(strings.TrimSpace(s))]
		if !ok {
			continue
		}
		if _, dup := seenSeasons[canonical]; dup {
			continue
		}
		seenSeasons[canonical] = struct{}{}
		seasons = append(seasons, canonical)
	}
	if len(seasons) == 0 {
		seasons = []string{SeasonAllSeason}
	}
	m.Seasons = seasons

	tags := make([]string, 0, len(m.Tags)+2)
	seenTags := make(map[string]struct{}, len(m.Tags)+2)
	for _, t := range append(append([]string{}, m.Tags...), m.Occasion, m.Style) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seenTags[t]; dup {
			continue
		}
		seenTags[t] = struct{}{}
		tags = append(tags, t)
	}
	m.Tags = tags

	if strings.TrimSpace(m.Name) == "" {
		m.Name = strings.TrimSpace(fmt.Sprintf("%s %s %s", m.Color, m.Style, m.Category))
	}
}

// ClothingItem - предмет одежды пользователя (сфотографированный или сгенерированный AI).
type ClothingItem struct {
	ID            uuid.UUID            `json:"id"`
	UserID        uuid.UUID            `json:"user_id"`
	SessionID     string               `json:"session_id,omitempty"`
	ImageURL      string               `json:"image_url,omitempty"`
	Metadata      ClothingItemMetadata `json:"metadata"`
	IsAIGenerated bool                 `json:"isAIGenerated"`
	SavedToCloset bool                 `json:"saved_to_closet"`
	CreatedAt     time.Time            `json:"created_at"`
}
