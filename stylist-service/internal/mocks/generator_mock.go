package mocks

import (
	"context"

	"outfit-server/stylist-service/internal/workflow"

	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock type for the workflow.Generator type
type MockGenerator struct {
	mock.Mock
}

// GenerateItem provides a mock function with given fields: ctx, req
func (_m *MockGenerator) GenerateItem(ctx context.Context, req workflow.GenerationRequest) (*workflow.GeneratedItem, error) {
	ret := _m.Called(ctx, req)

	var r0 *workflow.GeneratedItem
	if rf, ok := ret.Get(0).(func(context.Context, workflow.GenerationRequest) *workflow.GeneratedItem); ok {
		r0 = rf(ctx, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*workflow.GeneratedItem)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, workflow.GenerationRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockGenerator creates a new instance of MockGenerator.
func NewMockGenerator(t interface {
	mock.TestingT
	Helper()
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ workflow.Generator = (*MockGenerator)(nil)
