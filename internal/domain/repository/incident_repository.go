package repository

import (
	"context"

	"github.com/turtacn/sentinel/internal/domain/models"
)

//go:generate mockery --name IncidentRepository --output ../repository/mocks --filename incident_repository.go
type IncidentRepository interface {
	// List returns the current intelligence feed, newest first.
	List(ctx context.Context) ([]models.SecurityIncident, error)

	// Get returns the incident with the given id, or a not_found error.
	Get(ctx context.Context, id string) (models.SecurityIncident, error)

	// GetMany resolves ids in the order given. An unknown id fails the whole call
	// with not_found; a repeated id fails with invalid_incident.
	GetMany(ctx context.Context, ids []string) ([]models.SecurityIncident, error)
}

//go:generate mockery --name RegionRepository --output ../repository/mocks --filename region_repository.go
type RegionRepository interface {
	// Regions returns the region risk table, highest score first.
	Regions(ctx context.Context) ([]models.RegionRisk, error)
}
