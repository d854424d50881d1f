package service

import (
	"context"
	"fmt"

	"outfit-server/shared/interfaces"
	sharedLogger "outfit-server/shared/logger"
	"outfit-server/shared/messaging"
	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type queuedClosetSaver struct {
	publisher interfaces.Publisher
	logger    *zap.Logger
}

var _ workflow.ClosetSaver = (*queuedClosetSaver)(nil)

// NewQueuedClosetSaver возвращает ClosetSaver, который ставит задачу сохранения
// в очередь closet-worker. Квоты тарифа проверяет воркер.
func NewQueuedClosetSaver(publisher interfaces.Publisher, logger *zap.Logger) workflow.ClosetSaver {
	return &queuedClosetSaver{
		publisher: publisher,
		logger:    logger.Named("QueuedClosetSaver"),
	}
}

func (s *queuedClosetSaver) SaveItem(ctx context.Context, userID uuid.UUID, tier string, item models.ClothingItem) error {
	payload := messaging.ClosetSaveTaskPayload{
		TaskID:    uuid.NewString(),
		UserID:    userID,
		SessionID: item.SessionID,
		Tier:      tier,
		Item:      item,
	}
	if err := payload.Validate(); err != nil {
		closetSaveTasksTotal.WithLabelValues("invalid").Inc()
		return err
	}

	log := s.logger.With(append(sharedLogger.SessionFields(userID, payload.SessionID),
		zap.String("taskID", payload.TaskID),
		zap.String("itemID", item.ID.String()),
	)...)
	if err := s.publisher.Publish(ctx, payload, payload.TaskID); err != nil {
		closetSaveTasksTotal.WithLabelValues("error").Inc()
		log.Error("Failed to publish closet save task", zap.Error(err))
		return fmt.Errorf("failed to publish closet save task: %w", err)
	}
	closetSaveTasksTotal.WithLabelValues("published").Inc()
	log.Info("Closet save task published")
	return nil
}
