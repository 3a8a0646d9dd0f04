package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/sentinel/internal/domain/models"
)

// RegionRepository is a mock implementation of repository.RegionRepository
type RegionRepository struct {
	mock.Mock
}

func (m *RegionRepository) Regions(ctx context.Context) ([]models.RegionRisk, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RegionRisk), args.Error(1)
}
