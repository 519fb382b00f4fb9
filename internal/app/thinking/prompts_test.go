package thinking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisPrompt_WithoutHistory(t *testing.T) {
	p, err := analysisPrompt("Define scope", "Problem Definition", nil)
	require.NoError(t, err)

	assert.Contains(t, p, "Analyze this thought in the Problem Definition stage:")
	assert.Contains(t, p, "Thought: Define scope")
	assert.NotContains(t, p, "Previous thoughts")
}

func TestAnalysisPrompt_KeepsNewestThree(t *testing.T) {
	p, err := analysisPrompt("x", "Research", []string{"a", "b", "c", "d"})
	require.NoError(t, err)

	assert.Contains(t, p, "Previous thoughts in this session:\nb\nc\nd\n")
	assert.NotContains(t, p, "\na\n")
}

func TestAnalysisPrompt_DoesNotEscape(t *testing.T) {
	p, err := analysisPrompt(`compare <a> & "b"`, "Analysis", nil)
	require.NoError(t, err)
	assert.Contains(t, p, `compare <a> & "b"`)
}

func TestGuidancePrompt(t *testing.T) {
	p, err := guidancePrompt("Stage Research: read docs", "Research")
	require.NoError(t, err)
	assert.Contains(t, p, "Stage Research: read docs")
	assert.Contains(t, p, "The latest thought was in the Research stage.")
}

func TestInsightPrompt(t *testing.T) {
	p, err := insightPrompt("Stage Conclusion: ship it")
	require.NoError(t, err)
	assert.Contains(t, p, "Stage Conclusion: ship it")
	assert.Contains(t, p, "max 300 words")
}
