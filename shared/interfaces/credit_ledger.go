package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// CreditLedger - учет кредитов пользователя.
type CreditLedger interface {
	// Balance возвращает текущий баланс. Для пользователя без счета - 0.
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
	// Charged сообщает, есть ли уже списание по паре (userID, sessionID).
	Charged(ctx context.Context, userID uuid.UUID, sessionID string) (bool, error)
	// Debit списывает amount не более одного раза для пары (userID, sessionID).
	// Возвращает false без ошибки, если списание по этой сессии уже было.
	// При нехватке средств возвращает models.ErrInsufficientCredits.
	Debit(ctx context.Context, userID uuid.UUID, sessionID string, amount int) (bool, error)
	// Grant начисляет кредиты и возвращает новый баланс.
	Grant(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error)
}
