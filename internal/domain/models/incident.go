package models

import (
	"encoding/json"
	"strings"

	"github.com/turtacn/sentinel/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Category classifies a security incident. The set is closed.
type Category string

const (
	CategoryCyber           Category = "Cyber"
	CategoryGeopolitical    Category = "Geopolitical"
	CategoryCivilUnrest     Category = "Civil Unrest"
	CategoryNaturalDisaster Category = "Natural Disaster"
)

var categories = []Category{
	CategoryCyber,
	CategoryGeopolitical,
	CategoryCivilUnrest,
	CategoryNaturalDisaster,
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory resolves s to a Category. The canonical display string is accepted,
// as is its case-insensitive, space-free form ("civilunrest", "NaturalDisaster").
func ParseCategory(s string) (Category, error) {
	key := normalizeEnum(s)
	for _, c := range categories {
		if normalizeEnum(string(c)) == key {
			return c, nil
		}
	}
	return "", errors.ErrInvalidIncident("unknown incident category: " + s).
		WithMetadata("category", s)
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// MarshalJSON refuses to emit a value outside the enumeration.
func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.ErrInvalidIncident("unknown incident category: " + string(c))
	}
	return json.Marshal(string(c))
}

// UnmarshalJSON rejects values outside the enumeration.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.ErrInvalidIncident("category must be a string").WithCause(err)
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML applies the same parsing rules to feed files.
func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseCategory(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// RiskLevel grades an incident. Levels are ordered by severity, Critical first.
type RiskLevel string

const (
	RiskLevelCritical RiskLevel = "Critical"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelStable   RiskLevel = "Stable"
)

// riskLevels is ordered by descending severity.
var riskLevels = []RiskLevel{
	RiskLevelCritical,
	RiskLevelHigh,
	RiskLevelMedium,
	RiskLevelLow,
	RiskLevelStable,
}

// RiskLevels returns every level, most severe first.
func RiskLevels() []RiskLevel {
	out := make([]RiskLevel, len(riskLevels))
	copy(out, riskLevels)
	return out
}

// ParseRiskLevel resolves s to a RiskLevel, case-insensitively.
func ParseRiskLevel(s string) (RiskLevel, error) {
	key := normalizeEnum(s)
	for _, l := range riskLevels {
		if normalizeEnum(string(l)) == key {
			return l, nil
		}
	}
	return "", errors.ErrInvalidIncident("unknown risk level: " + s).
		WithMetadata("risk_level", s)
}

// Valid reports whether l is one of the declared levels.
func (l RiskLevel) Valid() bool {
	return l.Severity() >= 0
}

// Severity ranks l: Critical=4 down to Stable=0, -1 for an invalid level.
func (l RiskLevel) Severity() int {
	for i, known := range riskLevels {
		if l == known {
			return len(riskLevels) - 1 - i
		}
	}
	return -1
}

// MoreSevereThan reports whether l outranks other.
func (l RiskLevel) MoreSevereThan(other RiskLevel) bool {
	return l.Severity() > other.Severity()
}

func (l RiskLevel) String() string { return string(l) }

// MarshalJSON refuses to emit a value outside the enumeration.
func (l RiskLevel) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, errors.ErrInvalidIncident("unknown risk level: " + string(l))
	}
	return json.Marshal(string(l))
}

// UnmarshalJSON rejects values outside the enumeration.
func (l *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.ErrInvalidIncident("risk level must be a string").WithCause(err)
	}
	parsed, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalYAML applies the same parsing rules to feed files.
func (l *RiskLevel) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseRiskLevel(value.Value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// SecurityIncident is a single intelligence report. Values are treated as immutable
// and passed by value.
type SecurityIncident struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Category    Category  `json:"category" yaml:"category"`
	Location    string    `json:"location" yaml:"location"`
	Timestamp   string    `json:"timestamp" yaml:"timestamp"` // display string, e.g. "2 hours ago"
	Description string    `json:"description" yaml:"description"`
	RiskLevel   RiskLevel `json:"riskLevel" yaml:"riskLevel"`
	Source      string    `json:"source" yaml:"source"`
}

// NewSecurityIncident builds an incident and enforces its invariants.
func NewSecurityIncident(id, title string, category Category, location, timestamp, description string, level RiskLevel, source string) (SecurityIncident, error) {
	inc := SecurityIncident{
		ID:          id,
		Title:       title,
		Category:    category,
		Location:    location,
		Timestamp:   timestamp,
		Description: description,
		RiskLevel:   level,
		Source:      source,
	}
	if err := inc.Validate(); err != nil {
		return SecurityIncident{}, err
	}
	return inc, nil
}

// Validate checks the construction invariants of an incident.
func (i SecurityIncident) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.ErrInvalidIncident("incident id is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return errors.ErrInvalidIncident("incident title is required").WithMetadata("incident_id", i.ID)
	}
	if !i.Category.Valid() {
		return errors.ErrInvalidIncident("unknown incident category: "+string(i.Category)).
			WithMetadata("incident_id", i.ID)
	}
	if !i.RiskLevel.Valid() {
		return errors.ErrInvalidIncident("unknown risk level: "+string(i.RiskLevel)).
			WithMetadata("incident_id", i.ID)
	}
	return nil
}

// ValidateIncidentSet validates every incident and enforces id uniqueness across the set.
func ValidateIncidentSet(incidents []SecurityIncident) error {
	seen := make(map[string]struct{}, len(incidents))
	for _, inc := range incidents {
		if err := inc.Validate(); err != nil {
			return err
		}
		if _, dup := seen[inc.ID]; dup {
			return errors.ErrInvalidIncident("duplicate incident id: "+inc.ID).
				WithMetadata("incident_id", inc.ID)
		}
		seen[inc.ID] = struct{}{}
	}
	return nil
}
