package service

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/turtacn/sentinel/internal/domain/models"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/utils"
)

// Rejection reasons reported to metrics.
const (
	rejectEmpty      = "empty"
	rejectMalformed  = "malformed"
	rejectMissing    = "missing_field"
	rejectType       = "wrong_type"
	rejectOutOfRange = "constraint"
)

// codeFencePattern matches a response wrapped in a markdown code block: ```json { ... } ```
var codeFencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\s*```$")

// riskAnalysisPayload is the wire form of a RiskAnalysis with its validation rules.
type riskAnalysisPayload struct {
	OverallScore                float64  `json:"overallScore" validate:"gte=0,lte=100"`
	GeopoliticalFactor          float64  `json:"geopoliticalFactor" validate:"gte=0,lte=100"`
	InfrastructureVulnerability float64  `json:"infrastructureVulnerability" validate:"gte=0,lte=100"`
	EconomicStability           float64  `json:"economicStability" validate:"gte=0,lte=100"`
	Summary                     string   `json:"summary" validate:"notblank"`
	Recommendations             []string `json:"recommendations" validate:"required,dive,notblank"`
}

// decodeError is a BackendError annotated with the rejection reason.
type decodeError struct {
	reason string
	err    errors.SentinelError
}

func newDecodeError(reason, msg string, cause error) *decodeError {
	e := errors.ErrBackend(msg).WithMetadata("reason", reason)
	if cause != nil {
		e = e.WithCause(cause)
	}
	return &decodeError{reason: reason, err: e}
}

// stripCodeFence removes a surrounding markdown code block, if any.
func stripCodeFence(body string) string {
	body = strings.TrimSpace(body)
	if m := codeFencePattern.FindStringSubmatch(body); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return body
}

// DecodeRiskAnalysis turns a raw structured response into a RiskAnalysis. The result is
// either complete and in range or an error with code backend_error; values are never
// clamped or defaulted.
func DecodeRiskAnalysis(body string) (*models.RiskAnalysis, error) {
	analysis, derr := decodeRiskAnalysis(body)
	if derr != nil {
		return nil, derr.err
	}
	return analysis, nil
}

func decodeRiskAnalysis(body string) (*models.RiskAnalysis, *decodeError) {
	// 1. Unwrap markdown the backend may have added around the JSON
	body = stripCodeFence(body)
	if body == "" {
		return nil, newDecodeError(rejectEmpty, "backend returned an empty structured response", nil)
	}

	// 2. Every declared field must be present and non-null
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, newDecodeError(rejectMalformed, "backend response is not a JSON object", err)
	}
	for _, name := range riskAnalysisFields {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, newDecodeError(rejectMissing, "backend response is missing required field "+name, nil)
		}
	}

	// 3. Typed decode
	var payload riskAnalysisPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, newDecodeError(rejectType, "backend response does not match the risk analysis schema", err)
	}

	// 4. Bounds and non-empty text
	if err := utils.ValidateStruct(payload); err != nil {
		return nil, newDecodeError(rejectOutOfRange, "backend response violates the risk analysis schema", err)
	}

	recs := make([]string, len(payload.Recommendations))
	copy(recs, payload.Recommendations)
	return &models.RiskAnalysis{
		OverallScore:                payload.OverallScore,
		GeopoliticalFactor:          payload.GeopoliticalFactor,
		InfrastructureVulnerability: payload.InfrastructureVulnerability,
		EconomicStability:           payload.EconomicStability,
		Summary:                     payload.Summary,
		Recommendations:             recs,
	}, nil
}
