package service

import (
	"fmt"
	"strings"

	"github.com/turtacn/sentinel/internal/domain/models"
	domainService "github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/pkg/constants"
)

// Wire names of the risk analysis fields, in the order they are declared to the backend.
const (
	fieldOverallScore                = "overallScore"
	fieldGeopoliticalFactor          = "geopoliticalFactor"
	fieldInfrastructureVulnerability = "infrastructureVulnerability"
	fieldEconomicStability           = "economicStability"
	fieldSummary                     = "summary"
	fieldRecommendations             = "recommendations"
)

var riskAnalysisFields = []string{
	fieldOverallScore,
	fieldGeopoliticalFactor,
	fieldInfrastructureVulnerability,
	fieldEconomicStability,
	fieldSummary,
	fieldRecommendations,
}

const assessmentPromptTemplate = `Analyze the following security incident and provide a risk assessment in JSON format:
Incident: %s
Location: %s
Details: %s

The response must follow this schema:
- overallScore: number (0-100)
- geopoliticalFactor: number (0-100)
- infrastructureVulnerability: number (0-100)
- economicStability: number (0-100)
- summary: string
- recommendations: array of strings`

const briefingPromptTemplate = `Generate a high-level executive geopolitical brief based on these recent events:
%s

Focus on:
1. Cross-border implications.
2. Supply chain impact.
3. Resilience recommendations for global enterprises.

Keep it professional, concise, and formatted in Markdown.`

// BuildAssessmentPrompt embeds the incident's title, location and description into the
// assessment instructions.
func BuildAssessmentPrompt(incident models.SecurityIncident) string {
	return fmt.Sprintf(assessmentPromptTemplate, incident.Title, incident.Location, incident.Description)
}

// BriefingLine renders one incident as a bullet: "- [<category>] <title> in <location>".
func BriefingLine(incident models.SecurityIncident) string {
	return fmt.Sprintf("- [%s] %s in %s", incident.Category, incident.Title, incident.Location)
}

// BuildBriefingPrompt joins one bullet per incident, in input order, into the briefing template.
func BuildBriefingPrompt(incidents []models.SecurityIncident) string {
	lines := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		lines = append(lines, BriefingLine(inc))
	}
	return fmt.Sprintf(briefingPromptTemplate, strings.Join(lines, "\n"))
}

// RiskAnalysisSchema declares the structured output expected from an assessment:
// four numbers bounded to [0,100], a summary string and an array of recommendation
// strings, all required.
func RiskAnalysisSchema() *domainService.ResponseSchema {
	return &domainService.ResponseSchema{
		Type: domainService.SchemaTypeObject,
		Properties: map[string]*domainService.ResponseSchema{
			fieldOverallScore:                domainService.BoundedNumber("Overall risk score", constants.MinScore, constants.MaxScore),
			fieldGeopoliticalFactor:          domainService.BoundedNumber("Geopolitical factor", constants.MinScore, constants.MaxScore),
			fieldInfrastructureVulnerability: domainService.BoundedNumber("Infrastructure vulnerability", constants.MinScore, constants.MaxScore),
			fieldEconomicStability:           domainService.BoundedNumber("Economic stability", constants.MinScore, constants.MaxScore),
			fieldSummary:                     domainService.StringSchema("Executive summary of the incident's risk"),
			fieldRecommendations: domainService.ArrayOf("Ordered mitigation recommendations",
				domainService.StringSchema("")),
		},
		PropertyOrdering: append([]string(nil), riskAnalysisFields...),
		Required:         append([]string(nil), riskAnalysisFields...),
	}
}
