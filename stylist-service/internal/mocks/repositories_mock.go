package mocks

import (
	"context"

	"outfit-server/shared/interfaces"
	"outfit-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a mock type for the SessionRepository type
type MockSessionRepository struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, userID, sessionID
func (_m *MockSessionRepository) Get(ctx context.Context, userID uuid.UUID, sessionID string) (*models.WorkflowSnapshot, error) {
	ret := _m.Called(ctx, userID, sessionID)

	var r0 *models.WorkflowSnapshot
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.WorkflowSnapshot)
	}
	return r0, ret.Error(1)
}

// Save provides a mock function with given fields: ctx, userID, snapshot
func (_m *MockSessionRepository) Save(ctx context.Context, userID uuid.UUID, snapshot *models.WorkflowSnapshot) error {
	ret := _m.Called(ctx, userID, snapshot)
	return ret.Error(0)
}

// Lock provides a mock function with given fields: ctx, userID, sessionID
func (_m *MockSessionRepository) Lock(ctx context.Context, userID uuid.UUID, sessionID string) (func(), error) {
	ret := _m.Called(ctx, userID, sessionID)

	var r0 func()
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(func())
	}
	return r0, ret.Error(1)
}

// MockClosetRepository is a mock type for the ClosetRepository type
type MockClosetRepository struct {
	mock.Mock
}

// Save provides a mock function with given fields: ctx, item
func (_m *MockClosetRepository) Save(ctx context.Context, item *models.ClothingItem) (bool, error) {
	ret := _m.Called(ctx, item)
	return ret.Bool(0), ret.Error(1)
}

// CountByUser provides a mock function with given fields: ctx, userID
func (_m *MockClosetRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	ret := _m.Called(ctx, userID)
	return ret.Int(0), ret.Error(1)
}

// ListByUser provides a mock function with given fields: ctx, userID, cursor, limit
func (_m *MockClosetRepository) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]models.ClothingItem, string, error) {
	ret := _m.Called(ctx, userID, cursor, limit)

	var r0 []models.ClothingItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.ClothingItem)
	}
	return r0, ret.String(1), ret.Error(2)
}

// MockPublisher is a mock type for the Publisher type
type MockPublisher struct {
	mock.Mock
}

// Publish provides a mock function with given fields: ctx, payload, correlationID
func (_m *MockPublisher) Publish(ctx context.Context, payload interface{}, correlationID string) error {
	ret := _m.Called(ctx, payload, correlationID)
	return ret.Error(0)
}

// NewMockSessionRepository creates a new instance of MockSessionRepository.
func NewMockSessionRepository(t interface {
	mock.TestingT
	Helper()
}) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

// NewMockClosetRepository creates a new instance of MockClosetRepository.
func NewMockClosetRepository(t interface {
	mock.TestingT
	Helper()
}) *MockClosetRepository {
	m := &MockClosetRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

// NewMockPublisher creates a new instance of MockPublisher.
func NewMockPublisher(t interface {
	mock.TestingT
	Helper()
}) *MockPublisher {
	m := &MockPublisher{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var (
	_ interfaces.SessionRepository = (*MockSessionRepository)(nil)
	_ interfaces.ClosetRepository  = (*MockClosetRepository)(nil)
	_ interfaces.Publisher         = (*MockPublisher)(nil)
)
