package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/sentinel/internal/domain/models"
	repomocks "github.com/turtacn/sentinel/internal/domain/repository/mocks"
	"github.com/turtacn/sentinel/internal/domain/service/mocks"
	"github.com/turtacn/sentinel/pkg/errors"
)

type appFixture struct {
	incidents *repomocks.IncidentRepository
	regions   *repomocks.RegionRepository
	assessor  *mocks.MockRiskAssessor
	briefer   *mocks.MockBriefer
	svc       IntelligenceAppService
}

func newAppFixture(concurrency int) *appFixture {
	f := &appFixture{
		incidents: new(repomocks.IncidentRepository),
		regions:   new(repomocks.RegionRepository),
		assessor:  new(mocks.MockRiskAssessor),
		briefer:   new(mocks.MockBriefer),
	}
	f.svc = NewIntelligenceAppService(f.incidents, f.regions, f.assessor, f.briefer, concurrency, nil)
	return f
}

func TestAnalyzeIncident_NotFound(t *testing.T) {
	f := newAppFixture(1)
	f.incidents.On("Get", mock.Anything, "404").Return(models.SecurityIncident{}, errors.ErrIncidentNotFound("404"))

	_, err := f.svc.AnalyzeIncident(context.Background(), "404")

	assert.True(t, errors.IsNotFoundError(err))
	f.assessor.AssertNotCalled(t, "Assess", mock.Anything, mock.Anything)
}

func TestAnalyzeIncidents_PerItemOutcomes(t *testing.T) {
	f := newAppFixture(2)
	a, b := redSeaIncident(), zeroDayIncident()
	f.incidents.On("GetMany", mock.Anything, []string{"1", "2"}).Return([]models.SecurityIncident{a, b}, nil)
	f.assessor.On("Assess", mock.Anything, a).Return(&models.RiskAnalysis{OverallScore: 87, Summary: "s", Recommendations: []string{}}, nil)
	f.assessor.On("Assess", mock.Anything, b).Return(nil, errors.ErrBackend("timeout"))

	results, err := f.svc.AnalyzeIncidents(context.Background(), []string{"1", "2"})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].Incident.ID)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, 87.0, results[0].Analysis.OverallScore)
	assert.Equal(t, "2", results[1].Incident.ID)
	assert.Nil(t, results[1].Analysis)
	assert.True(t, errors.IsBackendError(results[1].Err))
}

func TestAnalyzeIncidents_RespectsConcurrencyLimit(t *testing.T) {
	f := newAppFixture(2)
	feed := []models.SecurityIncident{redSeaIncident(), zeroDayIncident(), {ID: "3", Title: "t", Category: models.CategoryCivilUnrest, RiskLevel: models.RiskLevelMedium}}
	f.incidents.On("List", mock.Anything).Return(feed, nil)

	var inFlight, peak int32
	f.assessor.On("Assess", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}).
		Return(&models.RiskAnalysis{Summary: "s", Recommendations: []string{}}, nil)

	results, err := f.svc.AnalyzeIncidents(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestBriefIncidents_WholeFeedAndFallbackFlag(t *testing.T) {
	f := newAppFixture(1)
	feed := []models.SecurityIncident{redSeaIncident(), zeroDayIncident()}
	f.incidents.On("List", mock.Anything).Return(feed, nil)
	f.briefer.On("Brief", mock.Anything, feed).Return("Unable to generate brief at this time.", nil)

	briefing, err := f.svc.BriefIncidents(context.Background(), nil)

	require.NoError(t, err)
	assert.True(t, briefing.Fallback)
	assert.Equal(t, []string{"1", "2"}, briefing.IncidentIDs)
	assert.False(t, briefing.GeneratedAt.IsZero())
}

func TestBriefIncidents_PropagatesBackendError(t *testing.T) {
	f := newAppFixture(1)
	f.incidents.On("GetMany", mock.Anything, []string{"1"}).Return([]models.SecurityIncident{redSeaIncident()}, nil)
	f.briefer.On("Brief", mock.Anything, mock.Anything).Return("", errors.ErrBackend("unavailable"))

	briefing, err := f.svc.BriefIncidents(context.Background(), []string{"1"})

	assert.Nil(t, briefing)
	assert.True(t, errors.IsBackendError(err))
}

func TestDashboard_Aggregates(t *testing.T) {
	f := newAppFixture(1)
	f.incidents.On("List", mock.Anything).Return([]models.SecurityIncident{redSeaIncident(), zeroDayIncident()}, nil)
	regions := []models.RegionRisk{{ID: "UKR", Name: "Ukraine", Score: 92, Trend: models.TrendUp, Tier: models.RiskTierCritical}}
	f.regions.On("Regions", mock.Anything).Return(regions, nil)

	summary, err := f.svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalIncidents)
	assert.Equal(t, 1, summary.CriticalIncidents)
	assert.Equal(t, models.RiskLevelCritical, summary.HighestRisk)
	assert.Equal(t, 1, summary.ByCategory[models.CategoryCyber])
	assert.Equal(t, 1, summary.ByRiskLevel[models.RiskLevelHigh])
	assert.Equal(t, regions, summary.Regions)
}
