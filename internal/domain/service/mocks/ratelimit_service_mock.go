package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/sentinel/internal/domain/service"
)

// MockRateLimitService is a mock implementation of RateLimitService
type MockRateLimitService struct {
	mock.Mock
}

func (m *MockRateLimitService) Allow(ctx context.Context, key string) (service.RateLimitDecision, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(service.RateLimitDecision), args.Error(1)
}

func (m *MockRateLimitService) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
