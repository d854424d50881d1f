package workflow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"outfit-server/shared/models"
)

// companionNamespace - пространство имен UUIDv5 для вещей-компаньонов.
var companionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("outfit-server/guided-look/companion"))

// itemNamespace - пространство имен UUIDv5 для сгенерированных вещей.
var itemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("outfit-server/guided-look/item"))

// Нейтральные цвета, которые сочетаются с цветом основной вещи.
var complementPalette = map[string][]string{
	"black":   {"white", "grey"},
	"negro":   {"white", "grey"},
	"white":   {"navy", "black"},
	"blanco":  {"navy", "black"},
	"navy":    {"white", "beige"},
	"beige":   {"navy", "brown"},
	"brown":   {"beige", "white"},
	"grey":    {"black", "white"},
	"red":     {"black", "white"},
	"neutral": {"black", "white"},
}

var defaultComplement = []string{"black", "beige"}

const outfitConfidence = 0.8

// Composer собирает образ из трех слотов вокруг сгенерированной вещи.
type Composer struct{}

// Compose заполняет слот категории вещи самой вещью, а два остальных слота -
// детерминированными вещами-компаньонами.
func (Composer) Compose(sessionID string, item models.ClothingItem, locale string) models.OutfitSuggestion {
	meta := item.Metadata
	palette, ok := complementPalette[strings.ToLower(meta.Color)]
	if !ok {
		palette = defaultComplement
	}

	suggestion := models.OutfitSuggestion{
		Confidence:       outfitConfidence,
		AIGeneratedItems: []models.ClothingItem{item},
	}
	suggestion.SetSlot(meta.Category, item.ID.String())

	i := 0
	for _, category := range models.AllCategories() {
		if category == meta.Category {
			continue
		}
		companion := companionItem(sessionID, item, category, palette[i%len(palette)])
		suggestion.SetSlot(category, companion.ID.String())
		suggestion.AIGeneratedItems = append(suggestion.AIGeneratedItems, companion)
		i++
	}

	suggestion.Explanation = text(locale, msgOutfitExplanation,
		meta.Name,
		Label(models.SlotStyle, meta.Style, locale),
		Label(models.SlotOccasion, meta.Occasion, locale),
	)
	return suggestion
}

// CompanionID возвращает идентификатор вещи-компаньона для слота сессии.
func CompanionID(sessionID, category string) uuid.UUID {
	return uuid.NewSHA1(companionNamespace, []byte(sessionID+":"+category))
}

// ItemID возвращает идентификатор сгенерированной вещи для попытки подтверждения.
// Повтор или гонка с тем же токеном дают тот же ID, поэтому воркер гардероба
// отбрасывает дубликат.
func ItemID(userID uuid.UUID, sessionID, confirmationToken string) uuid.UUID {
	return uuid.NewSHA1(itemNamespace, []byte(userID.String()+":"+sessionID+":"+confirmationToken))
}

func companionItem(sessionID string, base models.ClothingItem, category, color string) models.ClothingItem {
	meta := models.ClothingItemMetadata{
		Color:   color,
		Tags:    []string{"companion"},
		Seasons: append([]string(nil), base.Metadata.Seasons...),
	}
	meta.ApplyDefaults(category, base.Metadata.Occasion, base.Metadata.Style)
	meta.Name = strings.TrimSpace(fmt.Sprintf("%s %s", color, category))

	return models.ClothingItem{
		ID:            CompanionID(sessionID, category),
		UserID:        base.UserID,
		SessionID:     sessionID,
		Metadata:      meta,
		IsAIGenerated: true,
		CreatedAt:     base.CreatedAt,
	}
}
