package interfaces

import (
	"context"

	"outfit-server/shared/models"

	"github.com/google/uuid"
)

// SessionRepository хранит последний снапшот сессии создания образа.
type SessionRepository interface {
	// Get возвращает models.ErrNotFound, если снапшота нет (или истек TTL).
	Get(ctx context.Context, userID uuid.UUID, sessionID string) (*models.WorkflowSnapshot, error)
	Save(ctx context.Context, userID uuid.UUID, snapshot *models.WorkflowSnapshot) error
	// Lock захватывает блокировку сессии на время хода и возвращает функцию освобождения.
	// Если блокировку не удалось получить за время ожидания - models.ErrConflict.
	Lock(ctx context.Context, userID uuid.UUID, sessionID string) (func(), error)
}
