package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sentinel/internal/domain/models"
	"github.com/turtacn/sentinel/internal/infrastructure/persistence/memory"
)

func TestRenderIncidents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderIncidents(&buf, memory.SeedIncidents()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Critical")
	assert.Contains(t, lines[3], "Bangkok, Thailand")
}

func TestRenderAnalysis(t *testing.T) {
	var buf bytes.Buffer
	inc := memory.SeedIncidents()[0]
	err := renderAnalysis(&buf, inc, &models.RiskAnalysis{
		OverallScore:    87,
		Summary:         "Severe maritime disruption.",
		Recommendations: []string{"Reroute", "Buffer stock"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Disruption in Red Sea Shipping Lanes (Suez Canal / Red Sea)")
	assert.Contains(t, out, "Overall score:                87")
	assert.Contains(t, out, "  1. Reroute\n  2. Buffer stock\n")
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["incidents"])
	assert.True(t, names["assess"])
	assert.True(t, names["brief"])
}
