package workflow

import (
	"context"

	"github.com/google/uuid"

	"outfit-server/shared/models"
)

// GenerationRequest - параметры платной генерации предмета одежды.
type GenerationRequest struct {
	UserID    uuid.UUID
	SessionID string
	Occasion  string
	Style     string
	Category  string
	Locale    string
}

// GeneratedItem - результат генерации: описание и ссылка на изображение.
type GeneratedItem struct {
	Metadata models.ClothingItemMetadata
	ImageURL string
}

// Generator - внешняя возможность синтеза изображения и метаданных.
type Generator interface {
	GenerateItem(ctx context.Context, req GenerationRequest) (*GeneratedItem, error)
}

// CreditLedger - часть кредитного журнала, нужная для подтверждения генерации.
// Debit идемпотентен по (userID, sessionID) и возвращает false, если списание уже было.
type CreditLedger interface {
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
	// Charged сообщает, было ли уже списание по сессии.
	Charged(ctx context.Context, userID uuid.UUID, sessionID string) (bool, error)
	Debit(ctx context.Context, userID uuid.UUID, sessionID string, amount int) (bool, error)
}

// ClosetSaver принимает сгенерированный предмет на сохранение в гардероб.
type ClosetSaver interface {
	SaveItem(ctx context.Context, userID uuid.UUID, tier string, item models.ClothingItem) error
}
