package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"outfit-server/shared/interfaces"
	sharedLogger "outfit-server/shared/logger"
	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GuidedLookService ведет сессии пошагового создания образа поверх workflow.Engine.
type GuidedLookService interface {
	HandleTurn(ctx context.Context, userID uuid.UUID, tier string, req TurnRequest) (*ChatResponse, error)
}

type guidedLookServiceImpl struct {
	engine   *workflow.Engine
	sessions interfaces.SessionRepository
	logger   *zap.Logger
}

// NewGuidedLookService создает сервис сессий.
func NewGuidedLookService(engine *workflow.Engine, sessions interfaces.SessionRepository, logger *zap.Logger) GuidedLookService {
	return &guidedLookServiceImpl{
		engine:   engine,
		sessions: sessions,
		logger:   logger.Named("GuidedLookService"),
	}
}

// HandleTurn загружает снапшот сессии, применяет ход и сохраняет результат.
// Ходы одной сессии выполняются строго по очереди под блокировкой в хранилище.
// Если снапшот не удалось сохранить, результат хода не возвращается:
// клиент повторяет ход с тем же токеном, оплаченная сессия повторно не списывается.
func (s *guidedLookServiceImpl) HandleTurn(ctx context.Context, userID uuid.UUID, tier string, req TurnRequest) (*ChatResponse, error) {
	action := workflow.Action(strings.ToLower(strings.TrimSpace(string(req.Action))))
	if action == "" {
		action = workflow.ActionSubmit
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		if action != workflow.ActionStart {
			return nil, fmt.Errorf("%w: sessionId is required for action %q", models.ErrInvalidInput, action)
		}
		sessionID = uuid.NewString()
	}

	log := s.logger.With(append(sharedLogger.SessionFields(userID, sessionID), zap.String("action", string(action)))...)

	// Второй конкурирующий запрос ждет здесь и затем видит сохраненный результат первого
	unlock, err := s.sessions.Lock(ctx, userID, sessionID)
	if err != nil {
		log.Warn("Failed to lock session", zap.Error(err))
		return nil, err
	}
	defer unlock()

	prior, err := s.loadSnapshot(ctx, userID, sessionID)
	if err != nil {
		log.Error("Failed to load session snapshot", zap.Error(err))
		return nil, err
	}

	if action == workflow.ActionConfirmGenerate && startsGeneration(prior, req.Payload.ConfirmationToken) {
		if err := s.markGenerating(ctx, userID, prior); err != nil {
			log.Error("Failed to mark session as generating", zap.Error(err))
			return nil, err
		}
	}

	result, err := s.engine.Handle(ctx, userID, *prior, workflow.Turn{
		Action:  action,
		Message: req.Message,
		Payload: req.Payload,
		Locale:  req.Locale,
		Tier:    tier,
	})
	if err != nil {
		log.Warn("Workflow rejected turn", zap.Error(err))
		return nil, err
	}

	if err := s.sessions.Save(ctx, userID, &result.Snapshot); err != nil {
		log.Error("Failed to save session snapshot", zap.Error(err))
		return nil, fmt.Errorf("failed to save session snapshot: %w", err)
	}

	workflowTurnsTotal.WithLabelValues(string(action), string(result.Snapshot.Status)).Inc()
	if action == workflow.ActionConfirmGenerate {
		workflowGenerationsTotal.WithLabelValues(generationOutcome(prior.Status, result.Snapshot.Status, result.Snapshot.ErrorCode)).Inc()
	}
	if result.CreditsCharged > 0 {
		creditsDebitedTotal.Add(float64(result.CreditsCharged))
	}

	log.Info("Turn processed",
		zap.String("priorStatus", string(prior.Status)),
		zap.String("status", string(result.Snapshot.Status)),
		zap.String("errorCode", string(result.Snapshot.ErrorCode)),
		zap.Int("creditsCharged", result.CreditsCharged),
	)

	return &ChatResponse{
		Role:             RoleAssistant,
		Content:          result.Message,
		OutfitSuggestion: result.OutfitSuggestion,
		CreditsUsed:      result.CreditsCharged,
		Workflow:         newWorkflowState(result.Snapshot, s.engine.CostCredits()),
	}, nil
}

// startsGeneration: ход подтверждения с верным токеном дойдет до вызова генератора
// (если хватит кредитов).
func startsGeneration(prior *models.WorkflowSnapshot, token string) bool {
	if prior.GeneratedItem != nil || prior.Status == models.WorkflowStatusCancelled {
		return false
	}
	return prior.ConfirmationToken != "" && strings.TrimSpace(token) == prior.ConfirmationToken
}

// markGenerating сохраняет промежуточный статус generating на время вызова генератора.
// Если процесс упадет, следующий ход увидит generating с прежним токеном и сможет
// повторить подтверждение.
func (s *guidedLookServiceImpl) markGenerating(ctx context.Context, userID uuid.UUID, prior *models.WorkflowSnapshot) error {
	inFlight := prior.Clone()
	inFlight.Status = models.WorkflowStatusGenerating
	inFlight.ErrorCode = ""
	if err := s.sessions.Save(ctx, userID, &inFlight); err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// loadSnapshot возвращает сохраненный снапшот или новый idle-снапшот.
func (s *guidedLookServiceImpl) loadSnapshot(ctx context.Context, userID uuid.UUID, sessionID string) (*models.WorkflowSnapshot, error) {
	snap, err := s.sessions.Get(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.WorkflowSnapshot{
				SessionID:     sessionID,
				Status:        models.WorkflowStatusIdle,
				MissingFields: workflow.MissingFields(models.CollectedSlots{}),
			}, nil
		}
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}
	snap.SessionID = sessionID
	return snap, nil
}
