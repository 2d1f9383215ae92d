package ai

import (
	"encoding/json"
	"strings"

	"meetinsight-server/pkg/errors"
)

// rawAnalysis mirrors the provider wire format with pointer fields so that
// absent values can be told apart from zero values.
type rawAnalysis struct {
	Summary                *string       `json:"summary"`
	ActionItems            []rawAction   `json:"actionItems"`
	KeyTopics              []rawTopic    `json:"keyTopics"`
	Sentiment              *rawSentiment `json:"sentiment"`
	CompanyValuesAlignment *rawAlignment `json:"companyValuesAlignment"`
}

type rawAction struct {
	Text     string  `json:"text"`
	Priority *string `json:"priority"`
}

type rawTopic struct {
	Topic     string   `json:"topic"`
	Relevance *float64 `json:"relevance"`
}

type rawSentiment struct {
	Overall *string  `json:"overall"`
	Score   *float64 `json:"score"`
}

type rawAlignment struct {
	OverallAlignment *float64         `json:"overallAlignment"`
	Values           []ValueAlignment `json:"values"`
}

// ParseAnalysisResponse canonicalizes a provider's raw textual output into
// the fixed AnalysisResult shape. The text is expected to contain a single
// JSON object, optionally wrapped in a fenced code block. Missing fields are
// substituted with defaults; text that cannot be parsed as JSON returns an
// ErrResponseParse error with no partial recovery.
func ParseAnalysisResponse(raw string) (*AnalysisResult, error) {
	text := stripCodeFence(raw)

	var parsed rawAnalysis
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, errors.NewResponseParse(err.Error())
	}

	result := &AnalysisResult{
		Summary:     DefaultSummary,
		ActionItems: make([]ActionItem, 0, len(parsed.ActionItems)),
		KeyTopics:   make([]KeyTopic, 0, len(parsed.KeyTopics)),
		Sentiment:   Sentiment{Overall: "neutral", Score: 0},
	}

	if parsed.Summary != nil && *parsed.Summary != "" {
		result.Summary = *parsed.Summary
	}

	for _, item := range parsed.ActionItems {
		priority := "medium"
		if item.Priority != nil && *item.Priority != "" {
			priority = *item.Priority
		}
		result.ActionItems = append(result.ActionItems, ActionItem{
			Text:     item.Text,
			Priority: priority,
		})
	}

	for _, topic := range parsed.KeyTopics {
		relevance := 0.5
		if topic.Relevance != nil {
			relevance = *topic.Relevance
		}
		result.KeyTopics = append(result.KeyTopics, KeyTopic{
			Topic:     topic.Topic,
			Relevance: relevance,
		})
	}

	if parsed.Sentiment != nil {
		if parsed.Sentiment.Overall != nil && *parsed.Sentiment.Overall != "" {
			result.Sentiment.Overall = *parsed.Sentiment.Overall
		}
		if parsed.Sentiment.Score != nil {
			result.Sentiment.Score = *parsed.Sentiment.Score
		}
	}

	if parsed.CompanyValuesAlignment != nil {
		result.CompanyValuesAlignment = canonicalizeAlignment(parsed.CompanyValuesAlignment)
	}

	return result, nil
}

// canonicalizeAlignment fills in the scalar alignment from the per-value
// scores when the provider omitted it.
func canonicalizeAlignment(raw *rawAlignment) *CompanyValuesAlignment {
	alignment := &CompanyValuesAlignment{
		Values: raw.Values,
	}
	if alignment.Values == nil {
		alignment.Values = []ValueAlignment{}
	}

	if raw.OverallAlignment != nil {
		alignment.OverallAlignment = *raw.OverallAlignment
		return alignment
	}

	if len(alignment.Values) == 0 {
		return alignment
	}

	sum := 0.0
	for _, value := range alignment.Values {
		sum += value.Score
	}
	alignment.OverallAlignment = sum / float64(len(alignment.Values))

	return alignment
}

// stripCodeFence removes one leading/trailing triple-backtick fence, with or
// without a language tag, leaving the enclosed text untouched.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")

	// Drop a language tag such as "json" directly after the opening fence.
	i := 0
	for i < len(s) && ((s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z')) {
		i++
	}
	s = s[i:]

	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
