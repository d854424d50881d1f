package database

import (
	"context"
	"errors"
	"fmt"

	"outfit-server/shared/interfaces"
	"outfit-server/shared/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	// ReasonGeneration - списание за генерацию предмета в сессии.
	ReasonGeneration = "generation"
	// ReasonGrant - ручное начисление.
	ReasonGrant = "grant"
)

const (
	selectBalanceQuery = `SELECT balance FROM credit_accounts WHERE user_id = $1`

	sessionChargedQuery = `
		SELECT EXISTS (
			SELECT 1 FROM credit_transactions
			WHERE user_id = $1 AND session_id = $2 AND reason = $3
		)`

	insertDebitTxQuery = `
		INSERT INTO credit_transactions (id, user_id, session_id, amount, reason)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, session_id, reason) DO NOTHING`

	debitBalanceQuery = `
		UPDATE credit_accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2`

	grantBalanceQuery = `
		INSERT INTO credit_accounts (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = credit_accounts.balance + EXCLUDED.balance, updated_at = NOW()
		RETURNING balance`

	insertGrantTxQuery = `
		INSERT INTO credit_transactions (id, user_id, session_id, amount, reason)
		VALUES ($1, $2, NULL, $3, $4)`
)

type pgCreditLedgerRepository struct {
	db     interfaces.TxBeginner
	logger *zap.Logger
}

var _ interfaces.CreditLedger = (*pgCreditLedgerRepository)(nil)

// NewPgCreditLedgerRepository создает PostgreSQL реализацию CreditLedger.
func NewPgCreditLedgerRepository(db interfaces.TxBeginner, logger *zap.Logger) interfaces.CreditLedger {
	return &pgCreditLedgerRepository{
		db:     db,
		logger: logger.Named("PgCreditLedgerRepo"),
	}
}

// Balance возвращает баланс пользователя; пользователь без счета имеет 0.
func (r *pgCreditLedgerRepository) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	var balance int
	err := r.db.QueryRow(ctx, selectBalanceQuery, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		r.logger.Error("Failed to read credit balance", zap.String("userID", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to read credit balance: %w", err)
	}
	return balance, nil
}

// Charged проверяет наличие транзакции списания по сессии.
func (r *pgCreditLedgerRepository) Charged(ctx context.Context, userID uuid.UUID, sessionID string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, sessionChargedQuery, userID, sessionID, ReasonGeneration).Scan(&exists); err != nil {
		r.logger.Error("Failed to check session debit",
			zap.String("userID", userID.String()),
			zap.String("sessionID", sessionID),
			zap.Error(err),
		)
		return false, fmt.Errorf("failed to check session debit: %w", err)
	}
	return exists, nil
}

// Debit списывает кредиты за сессию. Запись транзакции с уникальным ключом
// (user_id, session_id, reason) гарантирует не более одного списания на сессию.
func (r *pgCreditLedgerRepository) Debit(ctx context.Context, userID uuid.UUID, sessionID string, amount int) (bool, error) {
	logFields := []zap.Field{
		zap.String("userID", userID.String()),
		zap.String("sessionID", sessionID),
		zap.Int("amount", amount),
	}
	if amount <= 0 || sessionID == "" {
		return false, fmt.Errorf("%w: debit requires positive amount and session id", models.ErrInvalidInput)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin debit transaction", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback после Commit возвращает ErrTxClosed, это ожидаемо
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, insertDebitTxQuery, uuid.New(), userID, sessionID, -amount, ReasonGeneration)
	if err != nil {
		r.logger.Error("Failed to insert debit transaction", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("failed to insert debit transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Info("Session already charged, skipping debit", logFields...)
		return false, nil
	}

	tag, err = tx.Exec(ctx, debitBalanceQuery, userID, amount)
	if err != nil {
		r.logger.Error("Failed to update balance", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Insufficient credits for debit", logFields...)
		return false, models.ErrInsufficientCredits
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit debit", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("failed to commit debit: %w", err)
	}

	r.logger.Info("Credits debited", logFields...)
	return true, nil
}

// Grant начисляет кредиты, создавая счет при необходимости.
func (r *pgCreditLedgerRepository) Grant(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	logFields := []zap.Field{zap.String("userID", userID.String()), zap.Int("amount", amount)}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: grant amount must be positive", models.ErrInvalidInput)
	}
	if reason == "" {
		reason = ReasonGrant
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance int
	if err := tx.QueryRow(ctx, grantBalanceQuery, userID, amount).Scan(&balance); err != nil {
		r.logger.Error("Failed to grant credits", append(logFields, zap.Error(err))...)
		return 0, fmt.Errorf("failed to grant credits: %w", err)
	}
	if _, err := tx.Exec(ctx, insertGrantTxQuery, uuid.New(), userID, amount, reason); err != nil {
		r.logger.Error("Failed to insert grant transaction", append(logFields, zap.Error(err))...)
		return 0, fmt.Errorf("failed to insert grant transaction: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit grant: %w", err)
	}

	r.logger.Info("Credits granted", append(logFields, zap.Int("balance", balance))...)
	return balance, nil
}
