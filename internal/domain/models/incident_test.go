package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/sentinel/pkg/errors"
	"gopkg.in/yaml.v3"
)

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"Cyber":            CategoryCyber,
		"geopolitical":     CategoryGeopolitical,
		"Civil Unrest":     CategoryCivilUnrest,
		"CivilUnrest":      CategoryCivilUnrest,
		"natural_disaster": CategoryNaturalDisaster,
	}
	for in, want := range cases {
		got, err := ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseCategory("Pandemic")
	assert.True(t, errors.IsInvalidIncident(err))
}

func TestRiskLevel_SeverityOrdering(t *testing.T) {
	levels := RiskLevels()
	for i := 0; i < len(levels)-1; i++ {
		assert.True(t, levels[i].MoreSevereThan(levels[i+1]), "%s should outrank %s", levels[i], levels[i+1])
	}
	assert.Equal(t, 4, RiskLevelCritical.Severity())
	assert.Equal(t, 0, RiskLevelStable.Severity())
	assert.Equal(t, -1, RiskLevel("Severe").Severity())
	assert.False(t, RiskLevel("Severe").Valid())
}

func TestSecurityIncident_UnmarshalRejectsUnknownEnums(t *testing.T) {
	var inc SecurityIncident
	err := json.Unmarshal([]byte(`{"id":"1","title":"t","category":"Weather","riskLevel":"High"}`), &inc)
	require.Error(t, err)

	err = json.Unmarshal([]byte(`{"id":"1","title":"t","category":"Cyber","riskLevel":"Extreme"}`), &inc)
	require.Error(t, err)
}

func TestSecurityIncident_JSONRoundTripUsesDisplayStrings(t *testing.T) {
	inc, err := NewSecurityIncident("3", "Civil Unrest in Southeast Asia Tech Hub", CategoryCivilUnrest,
		"Bangkok, Thailand", "6 hours ago", "Protests escalating.", RiskLevelMedium, "OSINT")
	require.NoError(t, err)

	raw, err := json.Marshal(inc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"category":"Civil Unrest"`)
	assert.Contains(t, string(raw), `"riskLevel":"Medium"`)
}

func TestSecurityIncident_YAMLAliases(t *testing.T) {
	src := []byte("id: \"9\"\ntitle: Flood\ncategory: natural disaster\nriskLevel: low\n")
	var inc SecurityIncident
	require.NoError(t, yaml.Unmarshal(src, &inc))
	assert.Equal(t, CategoryNaturalDisaster, inc.Category)
	assert.Equal(t, RiskLevelLow, inc.RiskLevel)
}

func TestNewSecurityIncident_Invariants(t *testing.T) {
	_, err := NewSecurityIncident("", "title", CategoryCyber, "", "", "", RiskLevelHigh, "")
	assert.True(t, errors.IsInvalidIncident(err))

	_, err = NewSecurityIncident("1", " ", CategoryCyber, "", "", "", RiskLevelHigh, "")
	assert.True(t, errors.IsInvalidIncident(err))

	_, err = NewSecurityIncident("1", "title", Category("Other"), "", "", "", RiskLevelHigh, "")
	assert.True(t, errors.IsInvalidIncident(err))

	_, err = NewSecurityIncident("1", "title", CategoryCyber, "", "", "", RiskLevel(""), "")
	assert.True(t, errors.IsInvalidIncident(err))
}

func TestValidateIncidentSet(t *testing.T) {
	a := SecurityIncident{ID: "a", Title: "A", Category: CategoryCyber, RiskLevel: RiskLevelLow}
	b := SecurityIncident{ID: "b", Title: "B", Category: CategoryGeopolitical, RiskLevel: RiskLevelHigh}

	assert.NoError(t, ValidateIncidentSet(nil))
	assert.NoError(t, ValidateIncidentSet([]SecurityIncident{a, b}))

	err := ValidateIncidentSet([]SecurityIncident{a, b, a})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidIncident(err))
}
