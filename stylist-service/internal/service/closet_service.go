package service

import (
	"context"

	"outfit-server/shared/interfaces"
	"outfit-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultClosetPageSize = 20
	maxClosetPageSize     = 100
)

// ClosetService - чтение гардероба пользователя.
type ClosetService interface {
	ListItems(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*ClosetPage, error)
}

type closetServiceImpl struct {
	repo   interfaces.ClosetRepository
	logger *zap.Logger
}

func NewClosetService(repo interfaces.ClosetRepository, logger *zap.Logger) ClosetService {
	return &closetServiceImpl{repo: repo, logger: logger.Named("ClosetService")}
}

func (s *closetServiceImpl) ListItems(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*ClosetPage, error) {
	if limit <= 0 {
		limit = defaultClosetPageSize
	}
	if limit > maxClosetPageSize {
		limit = maxClosetPageSize
	}

	items, next, err := s.repo.ListByUser(ctx, userID, cursor, limit)
	if err != nil {
		s.logger.Warn("Failed to list closet items", zap.String("userID", userID.String()), zap.Error(err))
		return nil, err
	}
	if items == nil {
		items = []models.ClothingItem{}
	}
	return &ClosetPage{Items: items, NextCursor: next}, nil
}
