package models

// WorkflowModeGuidedLook - единственный поддерживаемый режим ассистента.
const WorkflowModeGuidedLook = "guided_look_creation"

// WorkflowStatus - состояние сессии пошагового создания образа.
type WorkflowStatus string

const (
	WorkflowStatusIdle       WorkflowStatus = "idle"
	WorkflowStatusCollecting WorkflowStatus = "collecting"
	WorkflowStatusConfirming WorkflowStatus = "confirming"
	// generating сохраняется на время вызова генератора
	WorkflowStatusGenerating WorkflowStatus = "generating"
	WorkflowStatusGenerated  WorkflowStatus = "generated"
	WorkflowStatusCancelled  WorkflowStatus = "cancelled"
	WorkflowStatusError      WorkflowStatus = "error"
)

// IsTerminal возвращает true для generated и cancelled.
// error - восстанавливаемая пауза, а не терминальное состояние.
func (s WorkflowStatus) IsTerminal() bool {
	return s == WorkflowStatusGenerated || s == WorkflowStatusCancelled
}

// WorkflowErrorCode - закрытая таксономия ошибок сессии.
type WorkflowErrorCode string

const (
	WorkflowErrInsufficientCredits WorkflowErrorCode = "INSUFFICIENT_CREDITS"
	WorkflowErrGenerationTimeout   WorkflowErrorCode = "GENERATION_TIMEOUT"
	WorkflowErrGenerationFailed    WorkflowErrorCode = "GENERATION_FAILED"
	WorkflowErrInvalidConfirmation WorkflowErrorCode = "INVALID_CONFIRMATION"
)

// Slot - одно из обязательных полей сессии.
type Slot string

const (
	SlotOccasion Slot = "occasion"
	SlotStyle    Slot = "style"
	SlotCategory Slot = "category"
)

// CollectedSlots - частично заполненные поля сессии.
type CollectedSlots struct {
	Occasion string `json:"occasion,omitempty"`
	Style    string `json:"style,omitempty"`
	Category string `json:"category,omitempty"`
}

// Get возвращает значение слота.
func (c CollectedSlots) Get(slot Slot) string {
	switch slot {
	case SlotOccasion:
		return c.Occasion
	case SlotStyle:
		return c.Style
	case SlotCategory:
		return c.Category
	}
	return ""
}

// Set записывает значение слота.
func (c *CollectedSlots) Set(slot Slot, value string) {
	switch slot {
	case SlotOccasion:
		c.Occasion = value
	case SlotStyle:
		c.Style = value
	case SlotCategory:
		c.Category = value
	}
}

// WorkflowSnapshot - полное внешнее состояние одной сессии создания образа.
// Между ходами состояние передается только через снапшот.
type WorkflowSnapshot struct {
	SessionID         string            `json:"sessionId"`
	Status            WorkflowStatus    `json:"status"`
	Collected         CollectedSlots    `json:"collected"`
	MissingFields     []Slot            `json:"missingFields"`
	ConfirmationToken string            `json:"confirmationToken,omitempty"`
	GeneratedItem     *ClothingItem     `json:"generatedItem,omitempty"`
	ErrorCode         WorkflowErrorCode `json:"errorCode,omitempty"`
	AutosaveEnabled   bool              `json:"autosaveEnabled"`
}

// Clone возвращает копию снапшота, не разделяющую срезы и указатели с оригиналом.
func (s WorkflowSnapshot) Clone() WorkflowSnapshot {
	out := s
	out.MissingFields = append([]Slot(nil), s.MissingFields...)
	if s.GeneratedItem != nil {
		item := *s.GeneratedItem
		item.Metadata.Tags = append([]string(nil), s.GeneratedItem.Metadata.Tags...)
		item.Metadata.Seasons = append([]string(nil), s.GeneratedItem.Metadata.Seasons...)
		out.GeneratedItem = &item
	}
	return out
}
