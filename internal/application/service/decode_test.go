package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/sentinel/pkg/errors"
)

func TestDecodeRiskAnalysis_CodeFence(t *testing.T) {
	analysis, err := DecodeRiskAnalysis("```json\n" + redSeaResponse + "\n```")
	require.NoError(t, err)
	assert.Equal(t, 87.0, analysis.OverallScore)
}

func TestDecodeRiskAnalysis_BoundaryScores(t *testing.T) {
	analysis, err := DecodeRiskAnalysis(`{"overallScore":0,"geopoliticalFactor":100,"infrastructureVulnerability":0.5,"economicStability":99.9,"summary":"edge","recommendations":[]}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, analysis.OverallScore)
	assert.Equal(t, 100.0, analysis.GeopoliticalFactor)
	assert.NotNil(t, analysis.Recommendations)
	assert.Empty(t, analysis.Recommendations)
}

func TestDecodeRiskAnalysis_Rejections(t *testing.T) {
	cases := map[string]struct {
		body   string
		reason string
	}{
		"empty":          {"  ", rejectEmpty},
		"not json":       {"The risk is high.", rejectMalformed},
		"array":          {`[1,2]`, rejectMalformed},
		"missing field":  {`{"overallScore":1,"geopoliticalFactor":1,"infrastructureVulnerability":1,"summary":"s","recommendations":[]}`, rejectMissing},
		"null field":     {`{"overallScore":null,"geopoliticalFactor":1,"infrastructureVulnerability":1,"economicStability":1,"summary":"s","recommendations":[]}`, rejectMissing},
		"string score":   {`{"overallScore":"87","geopoliticalFactor":1,"infrastructureVulnerability":1,"economicStability":1,"summary":"s","recommendations":[]}`, rejectType},
		"negative score": {`{"overallScore":-1,"geopoliticalFactor":1,"infrastructureVulnerability":1,"economicStability":1,"summary":"s","recommendations":[]}`, rejectOutOfRange},
		"blank summary":  {`{"overallScore":1,"geopoliticalFactor":1,"infrastructureVulnerability":1,"economicStability":1,"summary":" ","recommendations":[]}`, rejectOutOfRange},
		"blank item":     {`{"overallScore":1,"geopoliticalFactor":1,"infrastructureVulnerability":1,"economicStability":1,"summary":"s","recommendations":["ok",""]}`, rejectOutOfRange},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			analysis, derr := decodeRiskAnalysis(tc.body)
			assert.Nil(t, analysis)
			require.NotNil(t, derr)
			assert.Equal(t, tc.reason, derr.reason)
			assert.True(t, errors.IsBackendError(derr.err))
		})
	}
}
