package interfaces

import (
	"context"

	"outfit-server/shared/models"

	"github.com/google/uuid"
)

// ClosetRepository - постоянный гардероб пользователя.
type ClosetRepository interface {
	// Save сохраняет предмет. Повторное сохранение того же ID ничего не делает,
	// в этом случае возвращается false.
	Save(ctx context.Context, item *models.ClothingItem) (bool, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	// ListByUser возвращает страницу предметов (новые первыми) и курсор следующей страницы.
	ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.ClothingItem, string, error)
}
