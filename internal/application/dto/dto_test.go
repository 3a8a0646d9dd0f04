package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/sentinel/internal/domain/models"
	"github.com/turtacn/sentinel/pkg/errors"
)

func TestErrorResponse_SentinelError(t *testing.T) {
	resp := ErrorResponse(errors.ErrIncidentNotFound("9"), "trace-1")

	assert.False(t, resp.Success)
	assert.Equal(t, "trace-1", resp.TraceID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "not_found", resp.Error.Code)
	assert.Equal(t, "9", resp.Error.Details["incident_id"])
}

func TestErrorResponse_PlainErrorIsMasked(t *testing.T) {
	resp := ErrorResponse(errors.New("secret stack detail"), "")

	assert.Equal(t, "server_error", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "secret")
}

func TestRateLimitExceededResponse(t *testing.T) {
	resp := RateLimitExceededResponse(1500*time.Millisecond, "")
	assert.Equal(t, "rate_limit_exceeded", resp.Error.Code)
	assert.Equal(t, "2", resp.Error.Details["retry_after"])
}

func TestNewBatchAnalysisResponse(t *testing.T) {
	a := models.SecurityIncident{ID: "1"}
	b := models.SecurityIncident{ID: "2"}
	resp := NewBatchAnalysisResponse([]models.IncidentAnalysis{
		{Incident: a, Analysis: &models.RiskAnalysis{OverallScore: 40, Summary: "s", Recommendations: []string{}}},
		{Incident: b, Err: errors.ErrBackend("timeout")},
	})

	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "1", resp.Results[0].IncidentID)
	assert.Nil(t, resp.Results[0].Error)
	assert.Equal(t, "backend_error", resp.Results[1].Error.Code)
	assert.Nil(t, resp.Results[1].Analysis)
}

func TestIncidentRequest_ToModel(t *testing.T) {
	var req IncidentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","title":"Quake","category":"natural disaster","riskLevel":"High"}`), &req))

	inc, err := req.ToModel()
	require.NoError(t, err)
	assert.Equal(t, models.CategoryNaturalDisaster, inc.Category)

	req.Title = ""
	_, err = req.ToModel()
	assert.True(t, errors.IsInvalidIncident(err))
}
