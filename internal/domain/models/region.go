package models

// Trend is the recent direction of a region's risk score.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// RiskTier buckets regions for the world risk map.
type RiskTier string

const (
	RiskTierCritical RiskTier = "critical"
	RiskTierElevated RiskTier = "elevated"
	RiskTierStable   RiskTier = "stable"
	RiskTierUnrated  RiskTier = "unrated"
)

// RegionRisk is the risk posture of one country or maritime region.
type RegionRisk struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Score float64  `json:"score" yaml:"score"`
	Trend Trend    `json:"trend" yaml:"trend"`
	Tier  RiskTier `json:"tier" yaml:"tier"`
}

// DashboardSummary aggregates the current feed for the command-center overview.
type DashboardSummary struct {
	TotalIncidents    int               `json:"totalIncidents"`
	CriticalIncidents int               `json:"criticalIncidents"`
	ByRiskLevel       map[RiskLevel]int `json:"byRiskLevel"`
	ByCategory        map[Category]int  `json:"byCategory"`
	HighestRisk       RiskLevel         `json:"highestRisk,omitempty"`
	Regions           []RegionRisk      `json:"regions"`
}
