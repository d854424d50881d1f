package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"outfit-server/shared/messaging"
	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/mocks"
	"outfit-server/stylist-service/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memorySessions - хранилище снапшотов в памяти с блокировкой сессии.
type memorySessions struct {
	mu      sync.Mutex
	snaps   map[string]models.WorkflowSnapshot
	locks   map[string]*sync.Mutex
	history []models.WorkflowStatus
	err     error
	// failOn - статус, сохранение которого один раз завершится ошибкой
	failOn models.WorkflowStatus
}

func newMemorySessions() *memorySessions {
	return &memorySessions{
		snaps: map[string]models.WorkflowSnapshot{},
		locks: map[string]*sync.Mutex{},
	}
}

func (m *memorySessions) Get(_ context.Context, userID uuid.UUID, sessionID string) (*models.WorkflowSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[userID.String()+":"+sessionID]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := snap.Clone()
	return &clone, nil
}

func (m *memorySessions) Save(_ context.Context, userID uuid.UUID, snapshot *models.WorkflowSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.failOn != "" && snapshot.Status == m.failOn {
		m.failOn = ""
		return errors.New("redis blip")
	}
	m.history = append(m.history, snapshot.Status)
	m.snaps[userID.String()+":"+snapshot.SessionID] = snapshot.Clone()
	return nil
}

func (m *memorySessions) Lock(_ context.Context, userID uuid.UUID, sessionID string) (func(), error) {
	key := userID.String() + ":" + sessionID
	m.mu.Lock()
	lock, ok := m.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[key] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock, nil
}

func (m *memorySessions) stored(userID uuid.UUID, sessionID string) models.WorkflowSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snaps[userID.String()+":"+sessionID]
}

// memoryLedger - журнал кредитов в памяти, списание идемпотентно по сессии.
type memoryLedger struct {
	mu      sync.Mutex
	balance int
	debited map[string]bool
	debits  int
}

func newMemoryLedger(balance int) *memoryLedger {
	return &memoryLedger{balance: balance, debited: map[string]bool{}}
}

func (l *memoryLedger) Balance(_ context.Context, _ uuid.UUID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance, nil
}

func (l *memoryLedger) Charged(_ context.Context, _ uuid.UUID, sessionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debited[sessionID], nil
}

func (l *memoryLedger) Debit(_ context.Context, _ uuid.UUID, sessionID string, amount int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.debited[sessionID] {
		return false, nil
	}
	if l.balance < amount {
		return false, models.ErrInsufficientCredits
	}
	l.balance -= amount
	l.debited[sessionID] = true
	l.debits++
	return true, nil
}

func blazerGenerator(t *testing.T) *mocks.MockGenerator {
	gen := mocks.NewMockGenerator(t)
	gen.On("GenerateItem", mock.Anything, mock.AnythingOfType("workflow.GenerationRequest")).
		Return(&workflow.GeneratedItem{
			Metadata: models.ClothingItemMetadata{Name: "Blazer azul", Color: "navy"},
			ImageURL: "https://cdn.example.com/blazer.jpg",
		}, nil).Maybe()
	return gen
}

func newEngineWith(gen workflow.Generator, ledger workflow.CreditLedger, saver workflow.ClosetSaver) *workflow.Engine {
	return workflow.NewEngine(
		workflow.Config{CostCredits: 2, GenerationTimeout: time.Second},
		gen, ledger, saver, zap.NewNop(),
		workflow.WithClock(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }),
	)
}

func newTestEngine(t *testing.T, ledger workflow.CreditLedger, saver workflow.ClosetSaver) *workflow.Engine {
	return newEngineWith(blazerGenerator(t), ledger, saver)
}

// readyToConfirm проводит новую сессию до confirming и возвращает ее ID и токен.
func readyToConfirm(t *testing.T, svc GuidedLookService, userID uuid.UUID) (string, string) {
	t.Helper()
	ctx := context.Background()
	resp, err := svc.HandleTurn(ctx, userID, models.TierFree, TurnRequest{Action: workflow.ActionStart})
	require.NoError(t, err)
	sessionID := resp.Workflow.SessionID

	resp, err = svc.HandleTurn(ctx, userID, models.TierFree, TurnRequest{
		SessionID: sessionID,
		Payload:   workflow.Payload{Occasion: "office", Style: "elegant", Category: "top"},
	})
	require.NoError(t, err)
	require.Equal(t, models.WorkflowStatusConfirming, resp.Workflow.Status)
	require.NotNil(t, resp.Workflow.ConfirmationToken)
	return sessionID, *resp.Workflow.ConfirmationToken
}

func confirmTurn(sessionID, token string) TurnRequest {
	return TurnRequest{
		SessionID: sessionID,
		Action:    workflow.ActionConfirmGenerate,
		Payload:   workflow.Payload{ConfirmationToken: token},
	}
}

func TestHandleTurn_FullScenario(t *testing.T) {
	userID := uuid.New()
	ledger := mocks.NewMockCreditLedger(t)
	ledger.On("Charged", mock.Anything, userID, mock.AnythingOfType("string")).Return(false, nil).Once()
	ledger.On("Balance", mock.Anything, userID).Return(10, nil)
	ledger.On("Debit", mock.Anything, userID, mock.AnythingOfType("string"), 2).Return(true, nil).Once()

	sessions := newMemorySessions()
	svc := NewGuidedLookService(newTestEngine(t, ledger, nil), sessions, zap.NewNop())
	ctx := context.Background()

	resp, err := svc.HandleTurn(ctx, userID, models.TierFree, TurnRequest{Action: workflow.ActionStart})
	require.NoError(t, err)
	sessionID := resp.Workflow.SessionID
	require.NotEmpty(t, sessionID)
	assert.Equal(t, RoleAssistant, resp.Role)
	assert.Equal(t, models.WorkflowStatusCollecting, resp.Workflow.Status)
	assert.Equal(t, models.WorkflowModeGuidedLook, resp.Workflow.Mode)
	assert.Nil(t, resp.Workflow.ConfirmationToken)
	assert.Nil(t, resp.Workflow.ErrorCode)

	for _, msg := range []string{"oficina", "elegante"} {
		resp, err = svc.HandleTurn(ctx, userID, models.TierFree, TurnRequest{SessionID: sessionID, Action: workflow.ActionSubmit, Message: msg})
		require.NoError(t, err)
		assert.Equal(t, models.WorkflowStatusCollecting, resp.Workflow.Status)
	}

	resp, err = svc.HandleTurn(ctx, userID, models.TierFree, TurnRequest{SessionID: sessionID, Message: "top"})
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusConfirming, resp.Workflow.Status)
	assert.True(t, resp.Workflow.RequiresConfirmation)
	assert.Equal(t, 2, resp.Workflow.EstimatedCostCredits)
	assert.Empty(t, resp.Workflow.MissingFields)
	require.NotNil(t, resp.Workflow.ConfirmationToken)
	assert.Contains(t, resp.Content, "2")

	resp, err = svc.HandleTurn(ctx, userID, models.TierFree, TurnRequest{
		SessionID: sessionID,
		Action:    workflow.ActionConfirmGenerate,
		Payload:   workflow.Payload{ConfirmationToken: *resp.Workflow.ConfirmationToken},
	})
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusGenerated, resp.Workflow.Status)
	assert.Equal(t, 2, resp.CreditsUsed)
	assert.False(t, resp.Workflow.RequiresConfirmation)
	require.NotNil(t, resp.Workflow.GeneratedItem)
	assert.Equal(t, models.CategoryTop, resp.Workflow.GeneratedItem.Metadata.Category)

	resp, err = svc.HandleTurn(ctx, userID, models.TierFree, TurnRequest{SessionID: sessionID, Action: workflow.ActionRequestOutfit})
	require.NoError(t, err)
	require.NotNil(t, resp.OutfitSuggestion)
	assert.Equal(t, resp.Workflow.GeneratedItem.ID.String(), resp.OutfitSuggestion.TopID)
}

func TestHandleTurn_ResponseNullableFields(t *testing.T) {
	userID := uuid.New()
	svc := NewGuidedLookService(newTestEngine(t, mocks.NewMockCreditLedger(t), nil), newMemorySessions(), zap.NewNop())

	resp, err := svc.HandleTurn(context.Background(), userID, models.TierFree, TurnRequest{Action: workflow.ActionStart})
	require.NoError(t, err)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	wf := decoded["workflow"].(map[string]interface{})
	for _, key := range []string{"confirmationToken", "generatedItem", "errorCode"} {
		value, present := wf[key]
		assert.True(t, present, key)
		assert.Nil(t, value, key)
	}
	assert.Equal(t, []interface{}{"occasion", "style", "category"}, wf["missingFields"])
	_, hasSuggestion := decoded["outfitSuggestion"]
	assert.False(t, hasSuggestion)
	assert.Equal(t, float64(0), decoded["credits_used"])
}

func TestHandleTurn_SessionIDRequiredExceptStart(t *testing.T) {
	svc := NewGuidedLookService(newTestEngine(t, mocks.NewMockCreditLedger(t), nil), newMemorySessions(), zap.NewNop())

	_, err := svc.HandleTurn(context.Background(), uuid.New(), models.TierFree, TurnRequest{Action: workflow.ActionSubmit, Message: "oficina"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestHandleTurn_UnknownSessionStartsIdle(t *testing.T) {
	svc := NewGuidedLookService(newTestEngine(t, mocks.NewMockCreditLedger(t), nil), newMemorySessions(), zap.NewNop())

	resp, err := svc.HandleTurn(context.Background(), uuid.New(), models.TierFree, TurnRequest{SessionID: "s-404", Message: "algo para una boda"})
	require.NoError(t, err)
	assert.Equal(t, "s-404", resp.Workflow.SessionID)
	assert.Equal(t, models.WorkflowStatusCollecting, resp.Workflow.Status)
	assert.Equal(t, "wedding", resp.Workflow.Collected.Occasion)
}

func TestHandleTurn_UnknownActionPropagates(t *testing.T) {
	svc := NewGuidedLookService(newTestEngine(t, mocks.NewMockCreditLedger(t), nil), newMemorySessions(), zap.NewNop())

	_, err := svc.HandleTurn(context.Background(), uuid.New(), models.TierFree, TurnRequest{SessionID: "s-1", Action: "dance"})
	assert.ErrorIs(t, err, workflow.ErrUnknownAction)
}

func TestHandleTurn_LoadFailure(t *testing.T) {
	userID := uuid.New()
	repo := mocks.NewMockSessionRepository(t)
	repo.On("Lock", mock.Anything, userID, "s-1").Return(func() {}, nil).Once()
	repo.On("Get", mock.Anything, userID, "s-1").Return(nil, errors.New("redis down"))

	svc := NewGuidedLookService(newTestEngine(t, mocks.NewMockCreditLedger(t), nil), repo, zap.NewNop())
	_, err := svc.HandleTurn(context.Background(), userID, models.TierFree, TurnRequest{SessionID: "s-1", Message: "oficina"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrInvalidInput)
}

func TestHandleTurn_SaveFailureReturnsError(t *testing.T) {
	sessions := newMemorySessions()
	sessions.err = errors.New("redis down")
	svc := NewGuidedLookService(newTestEngine(t, mocks.NewMockCreditLedger(t), nil), sessions, zap.NewNop())

	resp, err := svc.HandleTurn(context.Background(), uuid.New(), models.TierFree, TurnRequest{Action: workflow.ActionStart})
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestHandleTurn_LockConflict(t *testing.T) {
	userID := uuid.New()
	repo := mocks.NewMockSessionRepository(t)
	repo.On("Lock", mock.Anything, userID, "s-1").Return(nil, fmt.Errorf("%w: session s-1 is being processed", models.ErrConflict)).Once()

	svc := NewGuidedLookService(newTestEngine(t, mocks.NewMockCreditLedger(t), nil), repo, zap.NewNop())
	_, err := svc.HandleTurn(context.Background(), userID, models.TierFree, TurnRequest{SessionID: "s-1", Message: "oficina"})
	assert.ErrorIs(t, err, models.ErrConflict)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleTurn_ConfirmRetryAfterSaveFailureAtExactBalance(t *testing.T) {
	userID := uuid.New()
	ledger := newMemoryLedger(2)
	gen := blazerGenerator(t)
	sessions := newMemorySessions()
	svc := NewGuidedLookService(newEngineWith(gen, ledger, nil), sessions, zap.NewNop())
	sessionID, token := readyToConfirm(t, svc, userID)

	// Генерация и списание прошли, но итоговый снапшот не сохранился
	sessions.failOn = models.WorkflowStatusGenerated
	_, err := svc.HandleTurn(context.Background(), userID, models.TierFree, confirmTurn(sessionID, token))
	require.Error(t, err)
	assert.Equal(t, 0, ledger.balance)
	assert.Equal(t, models.WorkflowStatusGenerating, sessions.stored(userID, sessionID).Status)

	resp, err := svc.HandleTurn(context.Background(), userID, models.TierFree, confirmTurn(sessionID, token))
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowStatusGenerated, resp.Workflow.Status)
	assert.Nil(t, resp.Workflow.ErrorCode)
	assert.Equal(t, 0, resp.CreditsUsed)
	require.NotNil(t, resp.Workflow.GeneratedItem)
	assert.Equal(t, workflow.ItemID(userID, sessionID, token), resp.Workflow.GeneratedItem.ID)

	assert.Equal(t, 0, ledger.balance)
	assert.Equal(t, 1, ledger.debits)
	assert.Equal(t, models.WorkflowStatusGenerated, sessions.stored(userID, sessionID).Status)
}

func TestHandleTurn_RacingConfirmsAtExactBalance(t *testing.T) {
	userID := uuid.New()
	ledger := newMemoryLedger(2)
	gen := blazerGenerator(t)
	sessions := newMemorySessions()
	svc := NewGuidedLookService(newEngineWith(gen, ledger, nil), sessions, zap.NewNop())
	sessionID, token := readyToConfirm(t, svc, userID)

	var wg sync.WaitGroup
	responses := make([]*ChatResponse, 2)
	errs := make([]error, 2)
	for i := range responses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i], errs[i] = svc.HandleTurn(context.Background(), userID, models.TierFree, confirmTurn(sessionID, token))
		}(i)
	}
	wg.Wait()

	for i := range responses {
		require.NoError(t, errs[i])
		assert.Equal(t, models.WorkflowStatusGenerated, responses[i].Workflow.Status)
		assert.Nil(t, responses[i].Workflow.ErrorCode)
		require.NotNil(t, responses[i].Workflow.GeneratedItem)
	}
	assert.Equal(t, responses[0].Workflow.GeneratedItem.ID, responses[1].Workflow.GeneratedItem.ID)
	assert.Equal(t, 2, responses[0].CreditsUsed+responses[1].CreditsUsed)

	stored := sessions.stored(userID, sessionID)
	assert.Equal(t, models.WorkflowStatusGenerated, stored.Status)
	require.NotNil(t, stored.GeneratedItem)
	assert.Equal(t, 0, ledger.balance)
	assert.Equal(t, 1, ledger.debits)
	gen.AssertNumberOfCalls(t, "GenerateItem", 1)
}

func TestHandleTurn_ConfirmMarksGenerating(t *testing.T) {
	userID := uuid.New()
	sessions := newMemorySessions()
	svc := NewGuidedLookService(newTestEngine(t, newMemoryLedger(5), nil), sessions, zap.NewNop())
	sessionID, token := readyToConfirm(t, svc, userID)

	_, err := svc.HandleTurn(context.Background(), userID, models.TierFree, confirmTurn(sessionID, "wrong"))
	require.NoError(t, err)
	_, err = svc.HandleTurn(context.Background(), userID, models.TierFree, confirmTurn(sessionID, token))
	require.NoError(t, err)

	assert.Equal(t, []models.WorkflowStatus{
		models.WorkflowStatusCollecting,
		models.WorkflowStatusConfirming,
		models.WorkflowStatusError,
		models.WorkflowStatusGenerating,
		models.WorkflowStatusGenerated,
	}, sessions.history)
}

func TestQueuedClosetSaver_PublishesTask(t *testing.T) {
	userID := uuid.New()
	item := models.ClothingItem{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: "s-1",
		Metadata:  models.ClothingItemMetadata{Category: models.CategoryShoes},
	}

	pub := mocks.NewMockPublisher(t)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(p messaging.ClosetSaveTaskPayload) bool {
		return p.UserID == userID && p.Item.ID == item.ID && p.Tier == models.TierPro && p.SessionID == "s-1" && p.TaskID != ""
	}), mock.AnythingOfType("string")).Return(nil).Once()

	saver := NewQueuedClosetSaver(pub, zap.NewNop())
	require.NoError(t, saver.SaveItem(context.Background(), userID, models.TierPro, item))
}

func TestQueuedClosetSaver_Errors(t *testing.T) {
	userID := uuid.New()
	item := models.ClothingItem{ID: uuid.New(), UserID: userID, Metadata: models.ClothingItemMetadata{Category: models.CategoryTop}}

	pub := mocks.NewMockPublisher(t)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(messaging.ErrPublisherClosed).Once()
	saver := NewQueuedClosetSaver(pub, zap.NewNop())
	assert.ErrorIs(t, saver.SaveItem(context.Background(), userID, models.TierFree, item), messaging.ErrPublisherClosed)

	foreign := item
	foreign.UserID = uuid.New()
	assert.ErrorIs(t, saver.SaveItem(context.Background(), userID, models.TierFree, foreign), models.ErrInvalidInput)
}

func TestAutosaveThroughQueue(t *testing.T) {
	userID := uuid.New()
	ledger := mocks.NewMockCreditLedger(t)
	ledger.On("Charged", mock.Anything, userID, mock.AnythingOfType("string")).Return(false, nil)
	ledger.On("Balance", mock.Anything, userID).Return(5, nil)
	ledger.On("Debit", mock.Anything, userID, mock.Anything, 2).Return(true, nil)

	pub := mocks.NewMockPublisher(t)
	pub.On("Publish", mock.Anything, mock.AnythingOfType("messaging.ClosetSaveTaskPayload"), mock.Anything).Return(nil).Once()

	svc := NewGuidedLookService(newTestEngine(t, ledger, NewQueuedClosetSaver(pub, zap.NewNop())), newMemorySessions(), zap.NewNop())
	ctx := context.Background()
	enabled := true

	resp, err := svc.HandleTurn(ctx, userID, models.TierFree, TurnRequest{Action: workflow.ActionStart, Payload: workflow.Payload{AutosaveEnabled: &enabled}})
	require.NoError(t, err)
	sessionID := resp.Workflow.SessionID

	resp, err = svc.HandleTurn(ctx, userID, models.TierFree, TurnRequest{
		SessionID: sessionID,
		Payload:   workflow.Payload{Occasion: "work", Style: "minimal", Category: "bottom"},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Workflow.ConfirmationToken)

	resp, err = svc.HandleTurn(ctx, userID, models.TierFree, TurnRequest{
		SessionID: sessionID,
		Action:    workflow.ActionConfirmGenerate,
		Payload:   workflow.Payload{ConfirmationToken: *resp.Workflow.ConfirmationToken},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Workflow.GeneratedItem)
	assert.True(t, resp.Workflow.GeneratedItem.SavedToCloset)
	assert.True(t, resp.Workflow.AutosaveEnabled)
}

func TestCreditService(t *testing.T) {
	userID := uuid.New()
	ledger := mocks.NewMockCreditLedger(t)
	ledger.On("Balance", mock.Anything, userID).Return(7, nil).Once()
	ledger.On("Grant", mock.Anything, userID, 5, "admin_grant").Return(12, nil).Once()

	svc := NewCreditService(ledger, zap.NewNop())
	ctx := context.Background()

	balance, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 7, balance)

	balance, err = svc.Grant(ctx, userID, 5, "  ")
	require.NoError(t, err)
	assert.Equal(t, 12, balance)

	_, err = svc.Grant(ctx, userID, 0, "promo")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Grant(ctx, uuid.Nil, 3, "promo")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestClosetService_ClampsLimit(t *testing.T) {
	userID := uuid.New()
	repo := mocks.NewMockClosetRepository(t)
	repo.On("ListByUser", mock.Anything, userID, "", defaultClosetPageSize).Return([]models.ClothingItem{{ID: uuid.New()}}, "next", nil).Once()
	repo.On("ListByUser", mock.Anything, userID, "next", maxClosetPageSize).Return([]models.ClothingItem{}, "", nil).Once()

	svc := NewClosetService(repo, zap.NewNop())

	page, err := svc.ListItems(context.Background(), userID, "", 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "next", page.NextCursor)

	page, err = svc.ListItems(context.Background(), userID, "next", 1000)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.NextCursor)
}
