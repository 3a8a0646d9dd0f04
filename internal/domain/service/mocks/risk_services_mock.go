package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/sentinel/internal/domain/models"
)

// MockRiskAssessor is a mock implementation of service.RiskAssessor
type MockRiskAssessor struct {
	mock.Mock
}

func (m *MockRiskAssessor) Assess(ctx context.Context, incident models.SecurityIncident) (*models.RiskAnalysis, error) {
	args := m.Called(ctx, incident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RiskAnalysis), args.Error(1)
}

// MockBriefer is a mock implementation of service.Briefer
type MockBriefer struct {
	mock.Mock
}

func (m *MockBriefer) Brief(ctx context.Context, incidents []models.SecurityIncident) (string, error) {
	args := m.Called(ctx, incidents)
	return args.String(0), args.Error(1)
}
