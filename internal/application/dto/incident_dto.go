package dto

import (
	"time"

	"github.com/turtacn/sentinel/internal/domain/models"
)

// IncidentRequest is an incident submitted in a request body. Enumerations are checked
// when the body is decoded.
type IncidentRequest struct {
	ID          string           `json:"id" binding:"required"`
	Title       string           `json:"title" binding:"required"`
	Category    models.Category  `json:"category" binding:"required"`
	Location    string           `json:"location"`
	Timestamp   string           `json:"timestamp"`
	Description string           `json:"description"`
	RiskLevel   models.RiskLevel `json:"riskLevel" binding:"required"`
	Source      string           `json:"source"`
}

// ToModel builds the domain incident, enforcing its invariants.
func (r IncidentRequest) ToModel() (models.SecurityIncident, error) {
	return models.NewSecurityIncident(r.ID, r.Title, r.Category, r.Location, r.Timestamp,
		r.Description, r.RiskLevel, r.Source)
}

// BatchAnalysisRequest selects feed incidents by id; no ids means the whole feed.
type BatchAnalysisRequest struct {
	IDs []string `json:"ids" binding:"omitempty,max=50,dive,required"`
}

// BriefingRequest selects feed incidents by id or carries incidents inline. Supplying
// neither briefs over the whole feed.
type BriefingRequest struct {
	IDs       []string          `json:"ids" binding:"omitempty,dive,required"`
	Incidents []IncidentRequest `json:"incidents" binding:"omitempty,dive"`
}

// IncidentListResponse wraps the feed.
type IncidentListResponse struct {
	Incidents []models.SecurityIncident `json:"incidents"`
	Total     int                       `json:"total"`
}

// AnalysisResponse is one successful assessment.
type AnalysisResponse struct {
	IncidentID string               `json:"incidentId,omitempty"`
	Analysis   *models.RiskAnalysis `json:"analysis"`
}

// BatchItemResponse is one entry of a batch assessment: an analysis or an error, never both.
type BatchItemResponse struct {
	IncidentID string               `json:"incidentId"`
	Analysis   *models.RiskAnalysis `json:"analysis,omitempty"`
	Error      *ErrorDTO            `json:"error,omitempty"`
}

// BatchAnalysisResponse aggregates a batch assessment.
type BatchAnalysisResponse struct {
	Results   []BatchItemResponse `json:"results"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

// NewBatchAnalysisResponse converts batch results, preserving order.
func NewBatchAnalysisResponse(results []models.IncidentAnalysis) *BatchAnalysisResponse {
	resp := &BatchAnalysisResponse{Results: make([]BatchItemResponse, 0, len(results))}
	for _, r := range results {
		item := BatchItemResponse{IncidentID: r.Incident.ID}
		if r.Err != nil {
			item.Error = ErrorResponse(r.Err, "").Error
			resp.Failed++
		} else {
			item.Analysis = r.Analysis
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, item)
	}
	return resp
}

// HealthResponse reports liveness/readiness.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Backend   string            `json:"backend,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
