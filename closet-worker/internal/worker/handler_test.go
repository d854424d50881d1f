package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"outfit-server/shared/messaging"
	"outfit-server/shared/models"
)

type mockClosetRepo struct{ mock.Mock }

func (m *mockClosetRepo) Save(ctx context.Context, item *models.ClothingItem) (bool, error) {
	args := m.Called(ctx, item)
	return args.Bool(0), args.Error(1)
}

func (m *mockClosetRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockClosetRepo) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.ClothingItem, string, error) {
	args := m.Called(ctx, userID, cursor, limit)
	items, _ := args.Get(0).([]models.ClothingItem)
	return items, args.String(1), args.Error(2)
}

type countingPusher struct {
	pushes int
	err    error
}

func (p *countingPusher) Push() error {
	p.pushes++
	return p.err
}

func quota(tier string) int {
	if tier == models.TierPro {
		return 3
	}
	return 1
}

func newPayload(tier string) messaging.ClosetSaveTaskPayload {
	userID := uuid.New()
	return messaging.ClosetSaveTaskPayload{
		TaskID:    uuid.NewString(),
		UserID:    userID,
		SessionID: "s-1",
		Tier:      tier,
		Item: models.ClothingItem{
			ID:            uuid.New(),
			UserID:        userID,
			SessionID:     "s-1",
			IsAIGenerated: true,
			Metadata:      models.ClothingItemMetadata{Category: models.CategoryTop, Color: "navy"},
		},
	}
}

func delivery(t *testing.T, payload interface{}) amqp091.Delivery {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return amqp091.Delivery{Body: body, CorrelationId: "corr"}
}

func TestHandleDelivery_Saves(t *testing.T) {
	payload := newPayload(models.TierPro)
	repo := &mockClosetRepo{}
	repo.Test(t)
	repo.On("CountByUser", mock.Anything, payload.UserID).Return(2, nil).Once()
	repo.On("Save", mock.Anything, mock.MatchedBy(func(item *models.ClothingItem) bool {
		return item.ID == payload.Item.ID && item.SavedToCloset && !item.CreatedAt.IsZero()
	})).Return(true, nil).Once()

	pusher := &countingPusher{}
	h := NewHandler(zap.NewNop(), repo, quota, pusher)

	assert.True(t, h.HandleDelivery(context.Background(), delivery(t, payload)))
	assert.Equal(t, 1, pusher.pushes)
	repo.AssertExpectations(t)
}

func TestProcess_Duplicate(t *testing.T) {
	payload := newPayload(models.TierFree)
	repo := &mockClosetRepo{}
	repo.On("CountByUser", mock.Anything, payload.UserID).Return(0, nil).Once()
	repo.On("Save", mock.Anything, mock.Anything).Return(false, nil).Once()

	status, err := NewHandler(zap.NewNop(), repo, quota, nil).Process(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "duplicate", status)
}

func TestHandleDelivery_QuotaExceededIsDropped(t *testing.T) {
	payload := newPayload(models.TierFree)
	repo := &mockClosetRepo{}
	repo.On("CountByUser", mock.Anything, payload.UserID).Return(1, nil).Once()

	h := NewHandler(zap.NewNop(), repo, quota, nil)
	status, err := h.Process(context.Background(), payload)
	assert.ErrorIs(t, err, models.ErrClosetQuotaExceeded)
	assert.Equal(t, "quota_exceeded", status)

	repo.On("CountByUser", mock.Anything, payload.UserID).Return(1, nil).Once()
	assert.True(t, h.HandleDelivery(context.Background(), delivery(t, payload)))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestHandleDelivery_InvalidPayloadsAreDropped(t *testing.T) {
	repo := &mockClosetRepo{}
	repo.Test(t)
	h := NewHandler(zap.NewNop(), repo, quota, nil)

	assert.True(t, h.HandleDelivery(context.Background(), amqp091.Delivery{Body: []byte("{not json")}))

	foreign := newPayload(models.TierFree)
	foreign.Item.UserID = uuid.New()
	assert.True(t, h.HandleDelivery(context.Background(), delivery(t, foreign)))

	badCategory := newPayload(models.TierFree)
	badCategory.Item.Metadata.Category = "hat"
	assert.True(t, h.HandleDelivery(context.Background(), delivery(t, badCategory)))
}

func TestHandleDelivery_DatabaseErrorsRequeue(t *testing.T) {
	payload := newPayload(models.TierPro)
	repo := &mockClosetRepo{}
	repo.On("CountByUser", mock.Anything, payload.UserID).Return(0, errors.New("connection refused")).Once()
	h := NewHandler(zap.NewNop(), repo, quota, &countingPusher{err: errors.New("gateway down")})

	assert.False(t, h.HandleDelivery(context.Background(), delivery(t, payload)))

	repo.On("CountByUser", mock.Anything, payload.UserID).Return(0, nil).Once()
	repo.On("Save", mock.Anything, mock.Anything).Return(false, errors.New("deadlock")).Once()
	assert.False(t, h.HandleDelivery(context.Background(), delivery(t, payload)))
}
