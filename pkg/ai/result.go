package ai

// DefaultSummary is substituted when a provider response carries no summary.
const DefaultSummary = "No summary available"

// ActionItem is a follow-up task extracted from the conversation.
type ActionItem struct {
	Text     string `json:"text"`
	Priority string `json:"priority"` // "high" | "medium" | "low"
}

// KeyTopic is a discussion topic with a relevance weight in [0,1].
type KeyTopic struct {
	Topic     string  `json:"topic"`
	Relevance float64 `json:"relevance"`
}

// Sentiment is the overall tone of the conversation. Score is in [-1,1].
type Sentiment struct {
	Overall string  `json:"overall"` // "positive" | "neutral" | "negative"
	Score   float64 `json:"score"`
}

// ValueAlignment scores the conversation against one company value.
type ValueAlignment struct {
	Value    string   `json:"value"`
	Score    float64  `json:"score"` // [0,1]
	Examples []string `json:"examples"`
}

// CompanyValuesAlignment aggregates per-value scores.
type CompanyValuesAlignment struct {
	OverallAlignment float64          `json:"overallAlignment"` // [0,1]
	Values           []ValueAlignment `json:"values"`
}

// AnalysisResult is the canonical shape of a semantic analysis. Every field
// except CompanyValuesAlignment is always populated; missing provider output
// is replaced with defaults by the response validator.
type AnalysisResult struct {
	Summary                string                  `json:"summary"`
	ActionItems            []ActionItem            `json:"actionItems"`
	KeyTopics              []KeyTopic              `json:"keyTopics"`
	Sentiment              Sentiment               `json:"sentiment"`
	CompanyValuesAlignment *CompanyValuesAlignment `json:"companyValuesAlignment,omitempty"`
}
