package models

// OutfitSuggestion - образ из трех слотов (верх, низ, обувь).
type OutfitSuggestion struct {
	TopID            string         `json:"top_id"`
	BottomID         string         `json:"bottom_id"`
	ShoesID          string         `json:"shoes_id"`
	Explanation      string         `json:"explanation"`
	Confidence       float64        `json:"confidence"`
	AIGeneratedItems []ClothingItem `json:"aiGeneratedItems"`
}

// SlotID возвращает ID предмета в слоте указанной категории.
func (o *OutfitSuggestion) SlotID(category string) string {
	switch category {
	case CategoryTop:
		return o.TopID
	case CategoryBottom:
		return o.BottomID
	case CategoryShoes:
		return o.ShoesID
	}
	return ""
}

// SetSlot записывает ID предмета в слот категории.
func (o *OutfitSuggestion) SetSlot(category, id string) {
	switch category {
	case CategoryTop:
		o.TopID = id
	case CategoryBottom:
		o.BottomID = id
	case CategoryShoes:
		o.ShoesID = id
	}
}
