package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"outfit-server/shared/models"
)

// Action - действие пользователя в сессии создания образа.
type Action string

const (
	ActionStart           Action = "start"
	ActionCancel          Action = "cancel"
	ActionSubmit          Action = "submit"
	ActionConfirmGenerate Action = "confirm_generate"
	ActionRequestOutfit   Action = "request_outfit"
	ActionToggleAutosave  Action = "toggle_autosave"
)

// Payload - структурированные данные хода.
type Payload struct {
	Message           string
	Occasion          string
	Style             string
	Category          string
	ConfirmationToken string
	AutosaveEnabled   *bool
}

// Turn - один ход пользователя.
type Turn struct {
	Action  Action
	Message string
	Payload Payload
	Locale  string
	Tier    string
}

// TurnResult - ответ ассистента и новое состояние сессии.
type TurnResult struct {
	Message          string
	Snapshot         models.WorkflowSnapshot
	OutfitSuggestion *models.OutfitSuggestion
	CreditsCharged   int
}

// Config - параметры движка.
type Config struct {
	CostCredits       int
	GenerationTimeout time.Duration
	DefaultLocale     string
}

// Engine - конечный автомат пошагового создания образа.
// Все состояние между ходами передается через снапшот.
type Engine struct {
	cfg       Config
	generator Generator
	ledger    CreditLedger
	saver     ClosetSaver
	composer  Composer
	logger    *zap.Logger

	newToken func() string
	now      func() time.Time
}

// Option настраивает Engine.
type Option func(*Engine)

// WithTokenSource задает генератор токенов подтверждения.
func WithTokenSource(fn func() string) Option {
	return func(e *Engine) { e.newToken = fn }
}

// WithClock задает источник времени.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// NewEngine создает движок. saver может быть nil, тогда автосохранение не выполняется.
func NewEngine(cfg Config, generator Generator, ledger CreditLedger, saver ClosetSaver, logger *zap.Logger, opts ...Option) *Engine {
	if cfg.CostCredits <= 0 {
		cfg.CostCredits = 2
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 60 * time.Second
	}
	e := &Engine{
		cfg:       cfg,
		generator: generator,
		ledger:    ledger,
		saver:     saver,
		logger:    logger.Named("WorkflowEngine"),
		newToken:  uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CostCredits возвращает фиксированную стоимость генерации.
func (e *Engine) CostCredits() int {
	return e.cfg.CostCredits
}

// Handle применяет ход к снапшоту. Единственная возвращаемая ошибка - ErrUnknownAction;
// сбои генерации отражаются в errorCode снапшота.
func (e *Engine) Handle(ctx context.Context, userID uuid.UUID, prior models.WorkflowSnapshot, turn Turn) (TurnResult, error) {
	snap := prior.Clone()
	if snap.Status == "" {
		snap.Status = models.WorkflowStatusIdle
	}
	locale := ResolveLocale(turn.Locale, e.cfg.DefaultLocale)

	action := Action(strings.ToLower(strings.TrimSpace(string(turn.Action))))
	if action == "" {
		action = ActionSubmit
	}

	log := e.logger.With(
		zap.String("user_id", userID.String()),
		zap.String("session_id", snap.SessionID),
		zap.String("action", string(action)),
		zap.String("prior_status", string(snap.Status)),
	)

	var res TurnResult
	switch action {
	case ActionStart:
		res = e.start(snap, turn, locale)
	case ActionCancel:
		res = e.cancel(snap, locale)
	case ActionSubmit:
		res = e.submit(snap, turn, locale)
	case ActionConfirmGenerate:
		res = e.confirm(ctx, userID, snap, turn, locale, log)
	case ActionRequestOutfit:
		res = e.requestOutfit(snap, locale)
	case ActionToggleAutosave:
		res = e.toggleAutosave(snap, turn, locale)
	default:
		log.Warn("Unknown workflow action")
		return TurnResult{}, ErrUnknownAction
	}

	res.Snapshot.MissingFields = MissingFields(res.Snapshot.Collected)
	log.Debug("Workflow turn handled",
		zap.String("status", string(res.Snapshot.Status)),
		zap.String("error_code", string(res.Snapshot.ErrorCode)),
		zap.Int("credits_charged", res.CreditsCharged),
	)
	return res, nil
}

func (e *Engine) start(snap models.WorkflowSnapshot, turn Turn, locale string) TurnResult {
	next := models.WorkflowSnapshot{
		SessionID:       snap.SessionID,
		Status:          models.WorkflowStatusCollecting,
		AutosaveEnabled: snap.AutosaveEnabled,
	}
	if turn.Payload.AutosaveEnabled != nil {
		next.AutosaveEnabled = *turn.Payload.AutosaveEnabled
	}
	question, _ := NextQuestion(next.Collected, locale)
	return TurnResult{
		Message:  text(locale, msgStart) + " " + question,
		Snapshot: next,
	}
}

func (e *Engine) cancel(snap models.WorkflowSnapshot, locale string) TurnResult {
	switch snap.Status {
	case models.WorkflowStatusCancelled:
		return TurnResult{Message: text(locale, msgAlreadyCancelled), Snapshot: snap}
	case models.WorkflowStatusGenerated:
		return TurnResult{Message: text(locale, msgCancelAfterGenerated), Snapshot: snap}
	}
	snap.Status = models.WorkflowStatusCancelled
	snap.ConfirmationToken = ""
	snap.ErrorCode = ""
	return TurnResult{Message: text(locale, msgCancelled), Snapshot: snap}
}

// submit объединяет распознанные значения со снапшотом и решает, остаться в
// collecting или перейти в confirming.
func (e *Engine) submit(snap models.WorkflowSnapshot, turn Turn, locale string) TurnResult {
	switch snap.Status {
	case models.WorkflowStatusGenerated:
		return TurnResult{Message: text(locale, msgClosedGenerated), Snapshot: snap}
	case models.WorkflowStatusCancelled:
		return TurnResult{Message: text(locale, msgClosedCancelled), Snapshot: snap}
	}

	mergeSlots(&snap.Collected, turn)
	snap.ErrorCode = ""

	if question, missing := NextQuestion(snap.Collected, locale); missing {
		snap.Status = models.WorkflowStatusCollecting
		snap.ConfirmationToken = ""
		return TurnResult{Message: question, Snapshot: snap}
	}

	snap.Status = models.WorkflowStatusConfirming
	snap.ConfirmationToken = e.newToken()
	return TurnResult{
		Message: text(locale, msgCostDisclosure,
			Label(models.SlotCategory, snap.Collected.Category, locale),
			Label(models.SlotStyle, snap.Collected.Style, locale),
			Label(models.SlotOccasion, snap.Collected.Occasion, locale),
			e.cfg.CostCredits,
		),
		Snapshot: snap,
	}
}

// mergeSlots: явные поля перезаписывают значения, совпадения в тексте
// заполняют только пустые слоты.
func mergeSlots(collected *models.CollectedSlots, turn Turn) {
	explicit := map[models.Slot]string{
		models.SlotOccasion: turn.Payload.Occasion,
		models.SlotStyle:    turn.Payload.Style,
		models.SlotCategory: turn.Payload.Category,
	}
	for _, slot := range SlotOrder {
		if value, ok := Canonicalize(slot, explicit[slot]); ok {
			collected.Set(slot, value)
		}
	}

	freeText := turn.Payload.Message
	if strings.TrimSpace(freeText) == "" {
		freeText = turn.Message
	}
	found := ExtractSlots(freeText)
	for _, slot := range SlotOrder {
		if collected.Get(slot) == "" {
			collected.Set(slot, found.Get(slot))
		}
	}
}

func (e *Engine) requestOutfit(snap models.WorkflowSnapshot, locale string) TurnResult {
	if snap.Status != models.WorkflowStatusGenerated || snap.GeneratedItem == nil {
		return TurnResult{Message: text(locale, msgOutfitNeedsItem), Snapshot: snap}
	}
	suggestion := e.composer.Compose(snap.SessionID, *snap.GeneratedItem, locale)
	return TurnResult{
		Message:          text(locale, msgOutfitReady),
		Snapshot:         snap,
		OutfitSuggestion: &suggestion,
	}
}

// toggleAutosave переключает флаг; до генерации ход дополнительно работает как submit.
func (e *Engine) toggleAutosave(snap models.WorkflowSnapshot, turn Turn, locale string) TurnResult {
	if turn.Payload.AutosaveEnabled != nil {
		snap.AutosaveEnabled = *turn.Payload.AutosaveEnabled
	} else {
		snap.AutosaveEnabled = !snap.AutosaveEnabled
	}
	ack := text(locale, msgAutosaveOff)
	if snap.AutosaveEnabled {
		ack = text(locale, msgAutosaveOn)
	}

	if snap.Status.IsTerminal() {
		return TurnResult{Message: ack, Snapshot: snap}
	}
	res := e.submit(snap, turn, locale)
	res.Message = ack + " " + res.Message
	return res
}
