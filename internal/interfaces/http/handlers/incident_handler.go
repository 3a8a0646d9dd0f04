package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/sentinel/internal/application/dto"
	"github.com/turtacn/sentinel/internal/application/service"
	"github.com/turtacn/sentinel/internal/domain/models"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

// IncidentHandler serves the intelligence feed, assessments and briefings.
type IncidentHandler struct {
	svc    service.IntelligenceAppService
	logger logger.Logger
}

// NewIncidentHandler creates a new IncidentHandler.
func NewIncidentHandler(svc service.IntelligenceAppService, log logger.Logger) *IncidentHandler {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &IncidentHandler{svc: svc, logger: log}
}

// ListIncidents handles GET /api/v1/incidents.
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	incidents, err := h.svc.ListIncidents(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, &dto.IncidentListResponse{Incidents: incidents, Total: len(incidents)})
}

// GetIncident handles GET /api/v1/incidents/:id.
func (h *IncidentHandler) GetIncident(c *gin.Context) {
	incident, err := h.svc.GetIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, incident)
}

// AnalyzeIncident handles POST /api/v1/incidents/:id/analysis.
func (h *IncidentHandler) AnalyzeIncident(c *gin.Context) {
	result, err := h.svc.AnalyzeIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, &dto.AnalysisResponse{IncidentID: result.Incident.ID, Analysis: result.Analysis})
}

// AnalyzeIncidents handles POST /api/v1/incidents/analysis. An empty body or id
// list assesses the whole feed. Per-item failures are reported inline with 200.
func (h *IncidentHandler) AnalyzeIncidents(c *gin.Context) {
	var req dto.BatchAnalysisRequest
	if !h.bindOptional(c, &req) {
		return
	}

	results, err := h.svc.AnalyzeIncidents(c.Request.Context(), req.IDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, dto.NewBatchAnalysisResponse(results))
}

// AnalyzeSubmitted handles POST /api/v1/analysis with an incident in the body.
func (h *IncidentHandler) AnalyzeSubmitted(c *gin.Context) {
	var req dto.IncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}
	incident, err := req.ToModel()
	if err != nil {
		h.fail(c, err)
		return
	}

	analysis, err := h.svc.AnalyzeSubmitted(c.Request.Context(), incident)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, &dto.AnalysisResponse{IncidentID: incident.ID, Analysis: analysis})
}

// Brief handles POST /api/v1/briefings. The body selects feed incidents by id or
// carries incidents inline, not both. An empty body briefs over the whole feed.
func (h *IncidentHandler) Brief(c *gin.Context) {
	var req dto.BriefingRequest
	if !h.bindOptional(c, &req) {
		return
	}
	if len(req.IDs) > 0 && len(req.Incidents) > 0 {
		h.fail(c, errors.ErrInvalidRequest("ids and incidents are mutually exclusive"))
		return
	}

	var (
		briefing *models.Briefing
		err      error
	)
	if len(req.Incidents) > 0 {
		incidents := make([]models.SecurityIncident, 0, len(req.Incidents))
		for _, r := range req.Incidents {
			inc, convErr := r.ToModel()
			if convErr != nil {
				h.fail(c, convErr)
				return
			}
			incidents = append(incidents, inc)
		}
		briefing, err = h.svc.BriefSubmitted(c.Request.Context(), incidents)
	} else {
		briefing, err = h.svc.BriefIncidents(c.Request.Context(), req.IDs)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, briefing)
}

// Dashboard handles GET /api/v1/dashboard.
func (h *IncidentHandler) Dashboard(c *gin.Context) {
	summary, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, summary)
}

// Regions handles GET /api/v1/regions.
func (h *IncidentHandler) Regions(c *gin.Context) {
	regions, err := h.svc.Regions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, regions)
}

// bindOptional decodes an optional JSON body. It reports false after writing the
// error response.
func (h *IncidentHandler) bindOptional(c *gin.Context, obj interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, bindError(err))
		return false
	}
	return true
}

// fail records err on the context for the logging middleware and writes the envelope.
func (h *IncidentHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	dto.SendError(c, err)
}

// bindError keeps enumeration errors raised while decoding and maps the rest to invalid_request.
func bindError(err error) error {
	if _, ok := errors.AsSentinelError(err); ok {
		return err
	}
	return errors.ErrInvalidRequest("malformed request body").WithCause(err).
		WithMetadata("reason", err.Error())
}
