package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetinsight-server/pkg/errors"
)

func TestParseAnalysisResponseDefaults(t *testing.T) {
	result, err := ParseAnalysisResponse(`{"summary":"ok"}`)
	require.NoError(t, err)

	assert.Equal(t, "ok", result.Summary)
	assert.Equal(t, []ActionItem{}, result.ActionItems)
	assert.Equal(t, []KeyTopic{}, result.KeyTopics)
	assert.Equal(t, Sentiment{Overall: "neutral", Score: 0}, result.Sentiment)
	assert.Nil(t, result.CompanyValuesAlignment)
}

func TestParseAnalysisResponseMissingSummary(t *testing.T) {
	result, err := ParseAnalysisResponse(`{}`)
	require.NoError(t, err)
	assert.Equal(t, DefaultSummary, result.Summary)
}

func TestParseAnalysisResponseFenced(t *testing.T) {
	fenced := "```json\n{\"summary\":\"x\"}\n```"
	plain := `{"summary":"x"}`

	fromFenced, err := ParseAnalysisResponse(fenced)
	require.NoError(t, err)
	fromPlain, err := ParseAnalysisResponse(plain)
	require.NoError(t, err)

	assert.Equal(t, fromPlain, fromFenced)
}

func TestParseAnalysisResponseFenceWithoutLanguageTag(t *testing.T) {
	result, err := ParseAnalysisResponse("```\n{\"summary\":\"bare fence\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "bare fence", result.Summary)
}

func TestParseAnalysisResponseInvalidJSON(t *testing.T) {
	_, err := ParseAnalysisResponse("I could not produce JSON, sorry.")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrResponseParse))
}

func TestParseAnalysisResponseActionItemPriorityDefault(t *testing.T) {
	result, err := ParseAnalysisResponse(`{
		"actionItems": [
			{"text": "with priority", "priority": "high"},
			{"text": "without priority"}
		]
	}`)
	require.NoError(t, err)

	require.Len(t, result.ActionItems, 2)
	assert.Equal(t, "high", result.ActionItems[0].Priority)
	assert.Equal(t, "medium", result.ActionItems[1].Priority)
}

func TestParseAnalysisResponseTopicRelevanceDefault(t *testing.T) {
	result, err := ParseAnalysisResponse(`{
		"keyTopics": [
			{"topic": "roadmap", "relevance": 0.9},
			{"topic": "untagged"},
			{"topic": "zero", "relevance": 0}
		]
	}`)
	require.NoError(t, err)

	require.Len(t, result.KeyTopics, 3)
	assert.Equal(t, 0.9, result.KeyTopics[0].Relevance)
	assert.Equal(t, 0.5, result.KeyTopics[1].Relevance)
	// An explicit zero is kept, not replaced by the default.
	assert.Equal(t, 0.0, result.KeyTopics[2].Relevance)
}

func TestParseAnalysisResponsePartialSentiment(t *testing.T) {
	result, err := ParseAnalysisResponse(`{"sentiment": {"score": 0.4}}`)
	require.NoError(t, err)

	assert.Equal(t, "neutral", result.Sentiment.Overall)
	assert.Equal(t, 0.4, result.Sentiment.Score)
}

func TestParseAnalysisResponseAlignmentMean(t *testing.T) {
	result, err := ParseAnalysisResponse(`{
		"companyValuesAlignment": {
			"values": [
				{"value": "Innovation", "score": 0.8, "examples": []},
				{"value": "Customer Focus", "score": 0.4, "examples": ["quote"]}
			]
		}
	}`)
	require.NoError(t, err)

	require.NotNil(t, result.CompanyValuesAlignment)
	assert.InDelta(t, 0.6, result.CompanyValuesAlignment.OverallAlignment, 1e-9)
	assert.Len(t, result.CompanyValuesAlignment.Values, 2)
}

func TestParseAnalysisResponseAlignmentExplicitScalar(t *testing.T) {
	result, err := ParseAnalysisResponse(`{
		"companyValuesAlignment": {
			"overallAlignment": 0.9,
			"values": [{"value": "Integrity", "score": 0.1, "examples": []}]
		}
	}`)
	require.NoError(t, err)

	// The provider's scalar wins over the per-value mean.
	assert.Equal(t, 0.9, result.CompanyValuesAlignment.OverallAlignment)
}

func TestParseAnalysisResponseAlignmentEmptyValues(t *testing.T) {
	result, err := ParseAnalysisResponse(`{"companyValuesAlignment": {"values": []}}`)
	require.NoError(t, err)

	require.NotNil(t, result.CompanyValuesAlignment)
	assert.Zero(t, result.CompanyValuesAlignment.OverallAlignment)
	assert.Empty(t, result.CompanyValuesAlignment.Values)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"unfenced", `{"a":1}`, `{"a":1}`},
		{"json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"no tag", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"inline fence", "```{\"a\":1}```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFence(tt.input))
		})
	}
}
