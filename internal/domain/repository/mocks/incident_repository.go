package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/sentinel/internal/domain/models"
)

// IncidentRepository is a mock implementation of repository.IncidentRepository
type IncidentRepository struct {
	mock.Mock
}

func (m *IncidentRepository) List(ctx context.Context) ([]models.SecurityIncident, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SecurityIncident), args.Error(1)
}

func (m *IncidentRepository) Get(ctx context.Context, id string) (models.SecurityIncident, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.SecurityIncident), args.Error(1)
}

func (m *IncidentRepository) GetMany(ctx context.Context, ids []string) ([]models.SecurityIncident, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SecurityIncident), args.Error(1)
}
