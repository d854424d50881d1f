package mocks

import (
	"context"

	"outfit-server/shared/interfaces"
	"outfit-server/stylist-service/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCreditLedger is a mock type for the CreditLedger type
type MockCreditLedger struct {
	mock.Mock
}

// Balance provides a mock function with given fields: ctx, userID
func (_m *MockCreditLedger) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	ret := _m.Called(ctx, userID)
	return ret.Int(0), ret.Error(1)
}

// Charged provides a mock function with given fields: ctx, userID, sessionID
func (_m *MockCreditLedger) Charged(ctx context.Context, userID uuid.UUID, sessionID string) (bool, error) {
	ret := _m.Called(ctx, userID, sessionID)
	return ret.Bool(0), ret.Error(1)
}

// Debit provides a mock function with given fields: ctx, userID, sessionID, amount
func (_m *MockCreditLedger) Debit(ctx context.Context, userID uuid.UUID, sessionID string, amount int) (bool, error) {
	ret := _m.Called(ctx, userID, sessionID, amount)
	return ret.Bool(0), ret.Error(1)
}

// Grant provides a mock function with given fields: ctx, userID, amount, reason
func (_m *MockCreditLedger) Grant(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	ret := _m.Called(ctx, userID, amount, reason)
	return ret.Int(0), ret.Error(1)
}

// NewMockCreditLedger creates a new instance of MockCreditLedger.
func NewMockCreditLedger(t interface {
	mock.TestingT
	Helper()
}) *MockCreditLedger {
	m := &MockCreditLedger{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var (
	_ interfaces.CreditLedger = (*MockCreditLedger)(nil)
	_ workflow.CreditLedger   = (*MockCreditLedger)(nil)
)
