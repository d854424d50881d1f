package workflow

import "outfit-server/shared/models"

// SlotOrder - фиксированный порядок опроса слотов.
var SlotOrder = []models.Slot{models.SlotOccasion, models.SlotStyle, models.SlotCategory}

// MissingFields возвращает незаполненные слоты в порядке SlotOrder.
// Для полностью заполненной сессии возвращает пустой, но не nil срез.
func MissingFields(collected models.CollectedSlots) []models.Slot {
	missing := make([]models.Slot, 0, len(SlotOrder))
	for _, slot := range SlotOrder {
		if collected.Get(slot) == "" {
			missing = append(missing, slot)
		}
	}
	return missing
}

// NextQuestion возвращает вопрос для первого незаполненного слота.
// Второй результат false, если все слоты заполнены.
func NextQuestion(collected models.CollectedSlots, locale string) (string, bool) {
	missing := MissingFields(collected)
	if len(missing) == 0 {
		return "", false
	}
	switch missing[0] {
	case models.SlotOccasion:
		return text(locale, msgAskOccasion), true
	case models.SlotStyle:
		return text(locale, msgAskStyle), true
	default:
		return text(locale, msgAskCategory), true
	}
}
