// Package memory implements the read-only incident feed and region table.
// The feed is seeded with the command-center defaults and can be replaced
// by a YAML feed file.
package memory

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/sentinel/internal/domain/models"
	"github.com/turtacn/sentinel/pkg/errors"
)

// Feed is the document read from a feed file.
type Feed struct {
	Incidents []models.SecurityIncident `yaml:"incidents"`
	Regions   []models.RegionRisk       `yaml:"regions"`
}

// SeedIncidents returns the default intelligence feed, newest first.
func SeedIncidents() []models.SecurityIncident {
	return []models.SecurityIncident{
		{
			ID:          "1",
			Title:       "Disruption in Red Sea Shipping Lanes",
			Category:    models.CategoryGeopolitical,
			Location:    "Suez Canal / Red Sea",
			Timestamp:   "2 hours ago",
			Description: "Continued attacks on commercial vessels reported by local maritime security. Supply chain delays expected.",
			RiskLevel:   models.RiskLevelCritical,
			Source:      "Naval Intel",
		},
		{
			ID:          "2",
			Title:       "Zero-Day Vulnerability in Industrial Control Systems",
			Category:    models.CategoryCyber,
			Location:    "Global / Manufacturing Sector",
			Timestamp:   "4 hours ago",
			Description: "New exploit chain targeting PLC controllers used in automotive manufacturing plants across Europe and NA.",
			RiskLevel:   models.RiskLevelHigh,
			Source:      "Cyber Defense Center",
		},
		{
			ID:          "3",
			Title:       "Civil Unrest in Southeast Asia Tech Hub",
			Category:    models.CategoryCivilUnrest,
			Location:    "Bangkok, Thailand",
			Timestamp:   "6 hours ago",
			Description: "Protests escalating near government buildings; possible internet curfew being discussed.",
			RiskLevel:   models.RiskLevelMedium,
			Source:      "OSINT",
		},
	}
}

// SeedRegions returns the default region table.
func SeedRegions() []models.RegionRisk {
	return []models.RegionRisk{
		{ID: "UKR", Name: "Ukraine", Score: 92, Trend: models.TrendNeutral, Tier: models.RiskTierCritical},
		{ID: "RUS", Name: "Russia", Score: 85, Trend: models.TrendNeutral, Tier: models.RiskTierCritical},
		{ID: "ISR", Name: "Israel", Score: 84, Trend: models.TrendUp, Tier: models.RiskTierCritical},
		{ID: "PSE", Name: "Gaza", Score: 95, Trend: models.TrendUp, Tier: models.RiskTierCritical},
		{ID: "SDN", Name: "Sudan", Score: 90, Trend: models.TrendUp, Tier: models.RiskTierCritical},
		{ID: "MMR", Name: "Myanmar", Score: 81, Trend: models.TrendNeutral, Tier: models.RiskTierCritical},
		{ID: "TWN", Name: "Taiwan", Score: 68, Trend: models.TrendUp, Tier: models.RiskTierElevated},
		{ID: "SCS", Name: "South China Sea", Score: 72, Trend: models.TrendUp, Tier: models.RiskTierElevated},
		{ID: "TUR", Name: "Turkey", Score: 58, Trend: models.TrendNeutral, Tier: models.RiskTierElevated},
		{ID: "NGA", Name: "Nigeria", Score: 63, Trend: models.TrendDown, Tier: models.RiskTierElevated},
		{ID: "USA", Name: "USA", Score: 24, Trend: models.TrendNeutral, Tier: models.RiskTierStable},
		{ID: "CAN", Name: "Canada", Score: 12, Trend: models.TrendNeutral, Tier: models.RiskTierStable},
		{ID: "DEU", Name: "Germany", Score: 18, Trend: models.TrendDown, Tier: models.RiskTierStable},
		{ID: "JPN", Name: "Japan", Score: 15, Trend: models.TrendNeutral, Tier: models.RiskTierStable},
	}
}

// LoadFeedFile reads and validates a YAML feed file. A file without a regions
// section keeps the seeded region table.
func LoadFeedFile(path string) (*Feed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ErrInvalidConfig(fmt.Sprintf("read feed file %s", path)).WithCause(err)
	}
	return ParseFeed(raw)
}

// ParseFeed decodes and validates a YAML feed document.
func ParseFeed(raw []byte) (*Feed, error) {
	var feed Feed
	if err := yaml.Unmarshal(raw, &feed); err != nil {
		if sErr, ok := errors.AsSentinelError(err); ok {
			return nil, sErr
		}
		return nil, errors.ErrInvalidConfig("malformed feed file").WithCause(err)
	}
	if err := models.ValidateIncidentSet(feed.Incidents); err != nil {
		return nil, err
	}
	if len(feed.Regions) == 0 {
		feed.Regions = SeedRegions()
	}
	if err := validateRegions(feed.Regions); err != nil {
		return nil, err
	}
	return &feed, nil
}

func validateRegions(regions []models.RegionRisk) error {
	seen := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		if r.ID == "" || r.Name == "" {
			return errors.ErrInvalidConfig("region id and name are required")
		}
		if _, dup := seen[r.ID]; dup {
			return errors.ErrInvalidConfig("duplicate region id: " + r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.Score < 0 || r.Score > 100 {
			return errors.ErrInvalidConfig("region score out of range").WithMetadata("region", r.ID)
		}
		switch r.Trend {
		case models.TrendUp, models.TrendDown, models.TrendNeutral:
		default:
			return errors.ErrInvalidConfig("unknown region trend: " + string(r.Trend)).WithMetadata("region", r.ID)
		}
		switch r.Tier {
		case models.RiskTierCritical, models.RiskTierElevated, models.RiskTierStable, models.RiskTierUnrated:
		default:
			return errors.ErrInvalidConfig("unknown region tier: " + string(r.Tier)).WithMetadata("region", r.ID)
		}
	}
	return nil
}

// sortRegions orders regions by descending score, then by name.
func sortRegions(regions []models.RegionRisk) {
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Score != regions[j].Score {
			return regions[i].Score > regions[j].Score
		}
		return regions[i].Name < regions[j].Name
	})
}
