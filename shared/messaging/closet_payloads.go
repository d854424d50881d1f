package messaging

import (
	"github.com/google/uuid"

	"outfit-server/shared/models"
)

// DefaultClosetSaveQueue - очередь задач автосохранения в гардероб.
const DefaultClosetSaveQueue = "closet_save_tasks"

// ClosetSaveTaskPayload - задача на сохранение сгенерированной вещи в гардероб пользователя.
type ClosetSaveTaskPayload struct {
	TaskID    string              `json:"task_id"`
	UserID    uuid.UUID           `json:"user_id"`
	SessionID string              `json:"session_id"`
	Tier      string              `json:"tier"`
	Item      models.ClothingItem `json:"item"`
}

// Validate проверяет обязательные поля задачи.
func (p ClosetSaveTaskPayload) Validate() error {
	if p.UserID == uuid.Nil {
		return models.ErrInvalidInput
	}
	if p.Item.ID == uuid.Nil {
		return models.ErrInvalidInput
	}
	if p.Item.UserID != p.UserID {
		return models.ErrInvalidInput
	}
	if !models.IsValidCategory(p.Item.Metadata.Category) {
		return models.ErrInvalidInput
	}
	return nil
}
