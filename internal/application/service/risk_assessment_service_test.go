package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/sentinel/internal/domain/models"
	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/internal/domain/service/mocks"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

func redSeaIncident() models.SecurityIncident {
	return models.SecurityIncident{
		ID:          "1",
		Title:       "Disruption in Red Sea Shipping Lanes",
		Category:    models.CategoryGeopolitical,
		Location:    "Suez Canal / Red Sea",
		Timestamp:   "2 hours ago",
		Description: "Continued attacks on commercial vessels reported by local maritime security. Supply chain delays expected.",
		RiskLevel:   models.RiskLevelCritical,
		Source:      "Naval Intel",
	}
}

const redSeaResponse = `{"overallScore":87,"geopoliticalFactor":92,"infrastructureVulnerability":70,"economicStability":40,"summary":"Severe.","recommendations":["Reroute via Cape"]}`

func newAssessor(backend domainService.GenerativeBackend) domainService.RiskAssessor {
	return NewRiskAssessmentService(backend, nil, logger.NewNoopLogger())
}

func TestAssess_Success(t *testing.T) {
	backend := new(mocks.MockGenerativeBackend)
	incident := redSeaIncident()
	backend.On("GenerateJSON", mock.Anything, BuildAssessmentPrompt(incident), mock.AnythingOfType("*service.ResponseSchema")).
		Return(redSeaResponse, nil).Once()

	analysis, err := newAssessor(backend).Assess(context.Background(), incident)

	require.NoError(t, err)
	assert.Equal(t, 87.0, analysis.OverallScore)
	assert.Equal(t, 92.0, analysis.GeopoliticalFactor)
	assert.Equal(t, "Severe.", analysis.Summary)
	assert.Equal(t, []string{"Reroute via Cape"}, analysis.Recommendations)
	backend.AssertExpectations(t)
}

func TestAssess_PromptAndSchema(t *testing.T) {
	backend := new(mocks.MockGenerativeBackend)
	var gotPrompt string
	var gotSchema *domainService.ResponseSchema
	backend.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotPrompt = args.String(1)
			gotSchema = args.Get(2).(*domainService.ResponseSchema)
		}).
		Return(redSeaResponse, nil)

	_, err := newAssessor(backend).Assess(context.Background(), redSeaIncident())
	require.NoError(t, err)

	assert.Contains(t, gotPrompt, "Incident: Disruption in Red Sea Shipping Lanes")
	assert.Contains(t, gotPrompt, "Location: Suez Canal / Red Sea")
	assert.Contains(t, gotPrompt, "Details: Continued attacks on commercial vessels")
	assert.Contains(t, gotPrompt, "- recommendations: array of strings")

	require.NotNil(t, gotSchema)
	assert.Equal(t, domainService.SchemaTypeObject, gotSchema.Type)
	assert.ElementsMatch(t, riskAnalysisFields, gotSchema.Required)
	overall := gotSchema.Properties["overallScore"]
	require.NotNil(t, overall.Minimum)
	require.NotNil(t, overall.Maximum)
	assert.Equal(t, 0.0, *overall.Minimum)
	assert.Equal(t, 100.0, *overall.Maximum)
	assert.Equal(t, domainService.SchemaTypeString, gotSchema.Properties["recommendations"].Items.Type)
}

func TestAssess_MissingSummaryIsBackendError(t *testing.T) {
	backend := new(mocks.MockGenerativeBackend)
	backend.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"overallScore":50,"geopoliticalFactor":50,"infrastructureVulnerability":50,"economicStability":50,"recommendations":[]}`, nil)

	analysis, err := newAssessor(backend).Assess(context.Background(), redSeaIncident())

	assert.Nil(t, analysis)
	assert.True(t, errors.IsBackendError(err))
}

func TestAssess_OutOfRangeScoreIsRejected(t *testing.T) {
	backend := new(mocks.MockGenerativeBackend)
	metrics := new(mocks.MockMetrics)
	metrics.On("RecordAssessmentRejected", rejectOutOfRange).Once()
	backend.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"overallScore":140,"geopoliticalFactor":50,"infrastructureVulnerability":50,"economicStability":50,"summary":"s","recommendations":[]}`, nil)

	_, err := NewRiskAssessmentService(backend, metrics, nil).Assess(context.Background(), redSeaIncident())

	assert.True(t, errors.IsBackendError(err))
	metrics.AssertExpectations(t)
}

func TestAssess_BackendFailureIsWrapped(t *testing.T) {
	backend := new(mocks.MockGenerativeBackend)
	cause := errors.New("403 permission denied")
	backend.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return("", cause)

	_, err := newAssessor(backend).Assess(context.Background(), redSeaIncident())

	assert.True(t, errors.IsBackendError(err))
	assert.ErrorIs(t, err, cause)
}

func TestAssess_CancellationIsBackendError(t *testing.T) {
	backend := new(mocks.MockGenerativeBackend)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	backend.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("request aborted"))

	_, err := newAssessor(backend).Assess(ctx, redSeaIncident())

	assert.True(t, errors.IsBackendError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssess_InvalidIncidentSkipsBackend(t *testing.T) {
	backend := new(mocks.MockGenerativeBackend)
	incident := redSeaIncident()
	incident.RiskLevel = "Severe"

	_, err := newAssessor(backend).Assess(context.Background(), incident)

	assert.True(t, errors.IsInvalidIncident(err))
	backend.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssess_NotCached(t *testing.T) {
	backend := new(mocks.MockGenerativeBackend)
	backend.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return(redSeaResponse, nil).Once()
	backend.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"overallScore":60,"geopoliticalFactor":55,"infrastructureVulnerability":50,"economicStability":45,"summary":"Moderating.","recommendations":["Monitor"]}`, nil).Once()

	assessor := newAssessor(backend)
	first, err := assessor.Assess(context.Background(), redSeaIncident())
	require.NoError(t, err)
	second, err := assessor.Assess(context.Background(), redSeaIncident())
	require.NoError(t, err)

	assert.NotEqual(t, first.OverallScore, second.OverallScore)
	backend.AssertNumberOfCalls(t, "GenerateJSON", 2)
}
