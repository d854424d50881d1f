package mocks

import (
	"context"

	"outfit-server/shared/models"
	"outfit-server/stylist-service/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockClosetSaver is a mock type for the workflow.ClosetSaver type
type MockClosetSaver struct {
	mock.Mock
}

// SaveItem provides a mock function with given fields: ctx, userID, tier, item
func (_m *MockClosetSaver) SaveItem(ctx context.Context, userID uuid.UUID, tier string, item models.ClothingItem) error {
	ret := _m.Called(ctx, userID, tier, item)
	return ret.Error(0)
}

// NewMockClosetSaver creates a new instance of MockClosetSaver.
func NewMockClosetSaver(t interface {
	mock.TestingT
	Helper()
}) *MockClosetSaver {
	m := &MockClosetSaver{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ workflow.ClosetSaver = (*MockClosetSaver)(nil)
