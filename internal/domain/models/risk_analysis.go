package models

// RiskAnalysis is the structured assessment produced for one incident. Scores lie in
// [0,100]; Recommendations is never nil and keeps the backend's order.
type RiskAnalysis struct {
	OverallScore                float64  `json:"overallScore"`
	GeopoliticalFactor          float64  `json:"geopoliticalFactor"`
	InfrastructureVulnerability float64  `json:"infrastructureVulnerability"`
	EconomicStability           float64  `json:"economicStability"`
	Summary                     string   `json:"summary"`
	Recommendations             []string `json:"recommendations"`
}

// Scores returns the four scores keyed by their wire names.
func (a RiskAnalysis) Scores() map[string]float64 {
	return map[string]float64{
		"overallScore":                a.OverallScore,
		"geopoliticalFactor":          a.GeopoliticalFactor,
		"infrastructureVulnerability": a.InfrastructureVulnerability,
		"economicStability":           a.EconomicStability,
	}
}

// IncidentAnalysis pairs an incident with the outcome of assessing it. Exactly one of
// Analysis and Err is set.
type IncidentAnalysis struct {
	Incident SecurityIncident
	Analysis *RiskAnalysis
	Err      error
}
