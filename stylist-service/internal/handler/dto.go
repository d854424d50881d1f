package handler

import (
	"strings"

	"outfit-server/stylist-service/internal/service"
	"outfit-server/stylist-service/internal/workflow"

	"github.com/google/uuid"
)

// ChatRequest - тело POST /assistant/chat.
type ChatRequest struct {
	Message  string          `json:"message" binding:"max=2000"`
	Locale   string          `json:"locale,omitempty" binding:"max=64"`
	Workflow WorkflowRequest `json:"workflow"`
}

// WorkflowRequest - управляющая часть хода.
type WorkflowRequest struct {
	Mode      string          `json:"mode" binding:"required,eq=guided_look_creation"`
	SessionID string          `json:"sessionId" binding:"max=128"`
	Action    string          `json:"action" binding:"omitempty,oneof=start cancel submit confirm_generate request_outfit toggle_autosave"`
	Payload   WorkflowPayload `json:"payload"`
}

// WorkflowPayload - структурированные поля хода.
type WorkflowPayload struct {
	Message           string `json:"message,omitempty" binding:"max=2000"`
	Occasion          string `json:"occasion,omitempty" binding:"max=64"`
	Style             string `json:"style,omitempty" binding:"max=64"`
	Category          string `json:"category,omitempty" binding:"omitempty,oneof=top bottom shoes"`
	ConfirmationToken string `json:"confirmationToken,omitempty" binding:"max=128"`
	AutosaveEnabled   *bool  `json:"autosaveEnabled,omitempty"`
}

// toTurnRequest переводит тело запроса в ход сервиса. Локаль из тела
// имеет приоритет над Accept-Language.
func (r ChatRequest) toTurnRequest(acceptLanguage string) service.TurnRequest {
	locale := strings.TrimSpace(r.Locale)
	if locale == "" {
		locale = acceptLanguage
	}
	return service.TurnRequest{
		Message:   r.Message,
		SessionID: r.Workflow.SessionID,
		Action:    workflow.Action(r.Workflow.Action),
		Locale:    locale,
		Payload: workflow.Payload{
			Message:           r.Workflow.Payload.Message,
			Occasion:          r.Workflow.Payload.Occasion,
			Style:             r.Workflow.Payload.Style,
			Category:          r.Workflow.Payload.Category,
			ConfirmationToken: r.Workflow.Payload.ConfirmationToken,
			AutosaveEnabled:   r.Workflow.Payload.AutosaveEnabled,
		},
	}
}

// GrantCreditsRequest - тело POST /credits/grant.
type GrantCreditsRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
	Amount int       `json:"amount" binding:"required,min=1,max=100000"`
	Reason string    `json:"reason" binding:"max=255"`
}
