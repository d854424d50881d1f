package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"outfit-server/shared/models"
)

// confirm проверяет токен и баланс, выполняет генерацию и списывает кредиты.
// Кредиты списываются только после успешной генерации и не более одного раза на сессию.
// Если сессия уже оплачена (повтор после сбоя сохранения снапшота), баланс не
// проверяется и повторного списания нет.
func (e *Engine) confirm(ctx context.Context, userID uuid.UUID, snap models.WorkflowSnapshot, turn Turn, locale string, log *zap.Logger) TurnResult {
	// Вещь уже есть: повтор подтверждения ничего не делает
	if snap.GeneratedItem != nil {
		snap.Status = models.WorkflowStatusGenerated
		snap.ConfirmationToken = ""
		snap.ErrorCode = ""
		return TurnResult{Message: text(locale, msgAlreadyGenerated), Snapshot: snap}
	}
	// Отмененная сессия открывается только через start
	if snap.Status == models.WorkflowStatusCancelled {
		log.Info("Confirmation on cancelled session ignored")
		return TurnResult{Message: text(locale, msgClosedCancelled), Snapshot: snap}
	}

	supplied := strings.TrimSpace(turn.Payload.ConfirmationToken)
	if snap.ConfirmationToken == "" || supplied != snap.ConfirmationToken {
		log.Info("Confirmation token mismatch", zap.Bool("has_stored_token", snap.ConfirmationToken != ""))
		return failed(snap, models.WorkflowErrInvalidConfirmation, text(locale, msgInvalidConfirmation))
	}

	cost := e.cfg.CostCredits
	prepaid, err := e.ledger.Charged(ctx, userID, snap.SessionID)
	if err != nil {
		log.Error("Failed to check session debit", zap.Error(err))
		return failed(snap, models.WorkflowErrGenerationFailed, text(locale, msgGenerationFailed))
	}
	if prepaid {
		// Списание уже прошло, а снапшот с вещью не сохранился
		log.Warn("Session already charged, regenerating without debit")
	} else {
		balance, err := e.ledger.Balance(ctx, userID)
		if err != nil {
			log.Error("Failed to read credit balance", zap.Error(err))
			return failed(snap, models.WorkflowErrGenerationFailed, text(locale, msgGenerationFailed))
		}
		if balance < cost {
			log.Info("Insufficient credits for generation", zap.Int("balance", balance), zap.Int("cost", cost))
			return failed(snap, models.WorkflowErrInsufficientCredits, text(locale, msgInsufficientCredits))
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, e.cfg.GenerationTimeout)
	defer cancel()
	generated, err := e.generator.GenerateItem(genCtx, GenerationRequest{
		UserID:    userID,
		SessionID: snap.SessionID,
		Occasion:  snap.Collected.Occasion,
		Style:     snap.Collected.Style,
		Category:  snap.Collected.Category,
		Locale:    locale,
	})
	if err == nil && generated == nil {
		err = ErrGenerationFailed
	}
	if err != nil {
		code := ClassifyGenerationError(err)
		log.Warn("Item generation failed", zap.String("error_code", string(code)), zap.Error(err))
		return failed(snap, code, errorMessage(code, locale))
	}

	creditsCharged := 0
	if !prepaid {
		charged, err := e.ledger.Debit(ctx, userID, snap.SessionID, cost)
		if err != nil {
			if errors.Is(err, ErrInsufficientCredits) {
				log.Info("Insufficient credits at debit time")
				return failed(snap, models.WorkflowErrInsufficientCredits, text(locale, msgInsufficientCredits))
			}
			log.Error("Failed to debit credits", zap.Error(err))
			return failed(snap, models.WorkflowErrGenerationFailed, text(locale, msgGenerationFailed))
		}
		if charged {
			creditsCharged = cost
		} else {
			log.Warn("Credits were already debited for this session")
		}
	}

	meta := generated.Metadata
	meta.ApplyDefaults(snap.Collected.Category, snap.Collected.Occasion, snap.Collected.Style)
	item := models.ClothingItem{
		// ID зависит от попытки подтверждения, а не от вызова генератора
		ID:            ItemID(userID, snap.SessionID, snap.ConfirmationToken),
		UserID:        userID,
		SessionID:     snap.SessionID,
		ImageURL:      generated.ImageURL,
		Metadata:      meta,
		IsAIGenerated: true,
		CreatedAt:     e.now(),
	}

	if snap.AutosaveEnabled && e.saver != nil {
		if err := e.saver.SaveItem(ctx, userID, turn.Tier, item); err != nil {
			log.Warn("Autosave failed, item stays unsaved", zap.Error(err))
		} else {
			item.SavedToCloset = true
		}
	}

	snap.Status = models.WorkflowStatusGenerated
	snap.ConfirmationToken = ""
	snap.ErrorCode = ""
	snap.GeneratedItem = &item

	msg := text(locale, msgGenerated, meta.Name, creditsCharged)
	if item.SavedToCloset {
		msg += text(locale, msgGeneratedSaved)
	}
	suggestion := e.composer.Compose(snap.SessionID, item, locale)

	log.Info("Item generated",
		zap.String("item_id", item.ID.String()),
		zap.String("category", meta.Category),
		zap.Int("credits_charged", creditsCharged),
		zap.Bool("prepaid", prepaid),
		zap.Bool("saved_to_closet", item.SavedToCloset),
	)
	return TurnResult{
		Message:          msg,
		Snapshot:         snap,
		OutfitSuggestion: &suggestion,
		CreditsCharged:   creditsCharged,
	}
}

// failed переводит сессию в error. Токен подтверждения сохраняется для повтора.
func failed(snap models.WorkflowSnapshot, code models.WorkflowErrorCode, message string) TurnResult {
	snap.Status = models.WorkflowStatusError
	snap.ErrorCode = code
	snap.GeneratedItem = nil
	return TurnResult{Message: message, Snapshot: snap}
}

// ClassifyGenerationError сопоставляет ошибку генератора с кодом ошибки сессии.
func ClassifyGenerationError(err error) models.WorkflowErrorCode {
	switch {
	case errors.Is(err, ErrGenerationTimeout), errors.Is(err, context.DeadlineExceeded):
		return models.WorkflowErrGenerationTimeout
	case errors.Is(err, ErrInsufficientCredits):
		return models.WorkflowErrInsufficientCredits
	default:
		return models.WorkflowErrGenerationFailed
	}
}

func errorMessage(code models.WorkflowErrorCode, locale string) string {
	switch code {
	case models.WorkflowErrGenerationTimeout:
		return text(locale, msgGenerationTimeout)
	case models.WorkflowErrInsufficientCredits:
		return text(locale, msgInsufficientCredits)
	case models.WorkflowErrInvalidConfirmation:
		return text(locale, msgInvalidConfirmation)
	default:
		return text(locale, msgGenerationFailed)
	}
}
