package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/sentinel/internal/domain/service"
)

// MockGenerativeBackend is a mock implementation of service.GenerativeBackend
type MockGenerativeBackend struct {
	mock.Mock
}

func (m *MockGenerativeBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockGenerativeBackend) GenerateJSON(ctx context.Context, prompt string, schema *service.ResponseSchema) (string, error) {
	args := m.Called(ctx, prompt, schema)
	return args.String(0), args.Error(1)
}

func (m *MockGenerativeBackend) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
