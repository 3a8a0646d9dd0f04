package memory

import (
	"context"

	"github.com/turtacn/sentinel/internal/domain/models"
	"github.com/turtacn/sentinel/internal/domain/repository"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

// IncidentRepoImpl serves an immutable incident feed from memory.
type IncidentRepoImpl struct {
	incidents []models.SecurityIncident
	byID      map[string]int
	logger    logger.Logger
}

// NewIncidentRepository builds a repository over incidents. The set is validated
// and copied; later changes to the argument are not observed.
func NewIncidentRepository(incidents []models.SecurityIncident, log logger.Logger) (repository.IncidentRepository, error) {
	if err := models.ValidateIncidentSet(incidents); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}

	r := &IncidentRepoImpl{
		incidents: make([]models.SecurityIncident, len(incidents)),
		byID:      make(map[string]int, len(incidents)),
		logger:    log,
	}
	copy(r.incidents, incidents)
	for i, inc := range r.incidents {
		r.byID[inc.ID] = i
	}
	return r, nil
}

// List returns a copy of the feed.
func (r *IncidentRepoImpl) List(ctx context.Context) ([]models.SecurityIncident, error) {
	out := make([]models.SecurityIncident, len(r.incidents))
	copy(out, r.incidents)
	return out, nil
}

// Get returns the incident with the given id.
func (r *IncidentRepoImpl) Get(ctx context.Context, id string) (models.SecurityIncident, error) {
	i, ok := r.byID[id]
	if !ok {
		r.logger.Debug(ctx, "Incident not found", logger.String("incident_id", id))
		return models.SecurityIncident{}, errors.ErrIncidentNotFound(id)
	}
	return r.incidents[i], nil
}

// GetMany resolves ids in order.
func (r *IncidentRepoImpl) GetMany(ctx context.Context, ids []string) ([]models.SecurityIncident, error) {
	out := make([]models.SecurityIncident, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, errors.ErrInvalidIncident("duplicate incident id: "+id).WithMetadata("incident_id", id)
		}
		seen[id] = struct{}{}

		inc, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, nil
}

// RegionRepoImpl serves the region table from memory.
type RegionRepoImpl struct {
	regions []models.RegionRisk
}

// NewRegionRepository builds a repository over regions, ordered by descending score.
func NewRegionRepository(regions []models.RegionRisk) (repository.RegionRepository, error) {
	if err := validateRegions(regions); err != nil {
		return nil, err
	}
	r := &RegionRepoImpl{regions: make([]models.RegionRisk, len(regions))}
	copy(r.regions, regions)
	sortRegions(r.regions)
	return r, nil
}

// Regions returns a copy of the table.
func (r *RegionRepoImpl) Regions(ctx context.Context) ([]models.RegionRisk, error) {
	out := make([]models.RegionRisk, len(r.regions))
	copy(out, r.regions)
	return out, nil
}

// NewRepositories builds both repositories from the feed file at path, or from
// the seeded defaults when path is empty.
func NewRepositories(ctx context.Context, path string, log logger.Logger) (repository.IncidentRepository, repository.RegionRepository, error) {
	if log == nil {
		log = logger.NewNoopLogger()
	}

	feed := &Feed{Incidents: SeedIncidents(), Regions: SeedRegions()}
	if path != "" {
		loaded, err := LoadFeedFile(path)
		if err != nil {
			log.Error(ctx, "Failed to load feed file", err, logger.String("path", path))
			return nil, nil, err
		}
		feed = loaded
	}

	incidents, err := NewIncidentRepository(feed.Incidents, log)
	if err != nil {
		return nil, nil, err
	}
	regions, err := NewRegionRepository(feed.Regions)
	if err != nil {
		return nil, nil, err
	}

	log.Info(ctx, "Incident feed loaded",
		logger.String("path", path),
		logger.Int("incidents", len(feed.Incidents)),
		logger.Int("regions", len(feed.Regions)),
	)
	return incidents, regions, nil
}
