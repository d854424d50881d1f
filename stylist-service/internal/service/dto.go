package service

import (
	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/workflow"
)

// RoleAssistant - роль ответа в чате.
const RoleAssistant = "assistant"

// TurnRequest - один ход пользователя, уже провалидированный хендлером.
type TurnRequest struct {
	Message   string
	SessionID string
	Action    workflow.Action
	Payload   workflow.Payload
	Locale    string
}

// ChatResponse - ответ ассистента на ход.
type ChatResponse struct {
	Role             string                   `json:"role"`
	Content          string                   `json:"content"`
	OutfitSuggestion *models.OutfitSuggestion `json:"outfitSuggestion,omitempty"`
	CreditsUsed      int                      `json:"credits_used"`
	Workflow         WorkflowState            `json:"workflow"`
}

// WorkflowState - состояние сессии, отдаваемое клиенту.
// Пустые токен, вещь и код ошибки сериализуются как null.
type WorkflowState struct {
	Mode                 string                    `json:"mode"`
	SessionID            string                    `json:"sessionId"`
	Status               models.WorkflowStatus     `json:"status"`
	MissingFields        []models.Slot             `json:"missingFields"`
	Collected            models.CollectedSlots     `json:"collected"`
	EstimatedCostCredits int                       `json:"estimatedCostCredits"`
	RequiresConfirmation bool                      `json:"requiresConfirmation"`
	ConfirmationToken    *string                   `json:"confirmationToken"`
	GeneratedItem        *models.ClothingItem      `json:"generatedItem"`
	AutosaveEnabled      bool                      `json:"autosaveEnabled"`
	ErrorCode            *models.WorkflowErrorCode `json:"errorCode"`
}

func newWorkflowState(snap models.WorkflowSnapshot, cost int) WorkflowState {
	state := WorkflowState{
		Mode:                 models.WorkflowModeGuidedLook,
		SessionID:            snap.SessionID,
		Status:               snap.Status,
		MissingFields:        snap.MissingFields,
		Collected:            snap.Collected,
		EstimatedCostCredits: cost,
		RequiresConfirmation: snap.Status == models.WorkflowStatusConfirming && snap.ConfirmationToken != "",
		GeneratedItem:        snap.GeneratedItem,
		AutosaveEnabled:      snap.AutosaveEnabled,
	}
	if state.MissingFields == nil {
		state.MissingFields = []models.Slot{}
	}
	if snap.ConfirmationToken != "" {
		token := snap.ConfirmationToken
		state.ConfirmationToken = &token
	}
	if snap.ErrorCode != "" {
		code := snap.ErrorCode
		state.ErrorCode = &code
	}
	return state
}

// BalanceResponse - текущий баланс кредитов.
type BalanceResponse struct {
	Balance int `json:"balance"`
}

// ClosetPage - страница гардероба.
type ClosetPage struct {
	Items      []models.ClothingItem `json:"items"`
	NextCursor string                `json:"nextCursor,omitempty"`
}
