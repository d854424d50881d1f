package service

import (
	"context"
	"fmt"
	"strings"

	"outfit-server/shared/interfaces"
	"outfit-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreditService - чтение баланса и административное начисление кредитов.
type CreditService interface {
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
	Grant(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error)
}

type creditServiceImpl struct {
	ledger interfaces.CreditLedger
	logger *zap.Logger
}

// NewCreditService создает сервис поверх журнала кредитов.
func NewCreditService(ledger interfaces.CreditLedger, logger *zap.Logger) CreditService {
	return &creditServiceImpl{ledger: ledger, logger: logger.Named("CreditService")}
}

func (s *creditServiceImpl) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to read balance", zap.String("userID", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

func (s *creditServiceImpl) Grant(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	if userID == uuid.Nil {
		return 0, fmt.Errorf("%w: userId is required", models.ErrInvalidInput)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", models.ErrInvalidInput)
	}
	// Причина попадает в журнал транзакций
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "admin_grant"
	}

	log := s.logger.With(zap.String("userID", userID.String()), zap.Int("amount", amount), zap.String("reason", reason))
	balance, err := s.ledger.Grant(ctx, userID, amount, reason)
	if err != nil {
		log.Error("Failed to grant credits", zap.Error(err))
		return 0, fmt.Errorf("failed to grant credits: %w", err)
	}
	log.Info("Credits granted", zap.Int("balance", balance))
	return balance, nil
}
