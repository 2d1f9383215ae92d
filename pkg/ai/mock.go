package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// MockProvider implements a deterministic analysis provider for offline runs
// and tests. It is always available and never touches the network.
type MockProvider struct {
	logger *logrus.Logger
}

// NewMockProvider creates a new mock provider
func NewMockProvider(logger *logrus.Logger) *MockProvider {
	return &MockProvider{logger: logger}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// IsAvailable always reports true; the mock needs no credential.
func (p *MockProvider) IsAvailable() bool {
	return true
}

// AnalyzeTranscript returns a canned analysis derived only from the input
// shape, so repeated calls over the same transcript are identical.
func (p *MockProvider) AnalyzeTranscript(ctx context.Context, transcriptText string, companyValues []string) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wordCount := len(strings.Fields(transcriptText))

	result := &AnalysisResult{
		Summary: fmt.Sprintf("Mock analysis of a %d-word conversation covering general discussion.", wordCount),
		ActionItems: []ActionItem{
			{Text: "Review the meeting notes", Priority: "medium"},
			{Text: "Schedule a follow-up conversation", Priority: "low"},
		},
		KeyTopics: []KeyTopic{
			{Topic: "General discussion", Relevance: 0.8},
		},
		Sentiment: Sentiment{Overall: "neutral", Score: 0},
	}

	if len(companyValues) > 0 {
		values := make([]ValueAlignment, len(companyValues))
		for i, value := range companyValues {
			values[i] = ValueAlignment{
				Value:    value,
				Score:    0.5,
				Examples: []string{},
			}
		}
		result.CompanyValuesAlignment = &CompanyValuesAlignment{
			OverallAlignment: 0.5,
			Values:           values,
		}
	}

	p.logger.WithFields(logrus.Fields{
		"provider": p.Name(),
		"words":    wordCount,
	}).Debug("Mock transcript analysis generated")

	return result, nil
}

// GenerateCommunicationInsights returns a canned insight string built from
// the supplied metrics.
func (p *MockProvider) GenerateCommunicationInsights(ctx context.Context, transcriptText string, talkTimePercentage float64, interruptions int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"You spoke for %.1f%% of the conversation with %d interruptions. "+
			"Aim for balanced participation and let others finish their thoughts before responding.",
		talkTimePercentage, interruptions), nil
}
