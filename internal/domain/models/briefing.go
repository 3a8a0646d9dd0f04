package models

import "time"

// Briefing is the read model of a generated executive brief.
type Briefing struct {
	Text        string    `json:"text"`
	Fallback    bool      `json:"fallback"`
	IncidentIDs []string  `json:"incidentIds"`
	GeneratedAt time.Time `json:"generatedAt"`
}
