package ai

import (
	"fmt"
	"strings"
)

// maxTranscriptChars bounds the transcript text embedded in a prompt.
const maxTranscriptChars = 50000

// credentialShapeOK is the shared availability check: a credential string
// must be non-empty and longer than a plausibility minimum. Never a network
// call.
func credentialShapeOK(apiKey string) bool {
	return len(strings.TrimSpace(apiKey)) > 10
}

// truncateTranscript caps transcript length, breaking at a word boundary.
func truncateTranscript(text string) string {
	if len(text) <= maxTranscriptChars {
		return text
	}

	truncated := text[:maxTranscriptChars]
	if idx := strings.LastIndex(truncated, " "); idx > 0 {
		truncated = truncated[:idx]
	}
	return truncated + "... [truncated]"
}

// formatCompanyValues renders a numbered list for the analysis prompt.
func formatCompanyValues(values []string) string {
	if len(values) == 0 {
		return "No specific company values provided."
	}

	lines := make([]string, len(values))
	for i, value := range values {
		lines[i] = fmt.Sprintf("%d. %s", i+1, value)
	}
	return strings.Join(lines, "\n")
}

// buildAnalysisPrompt produces the structured-analysis prompt shared by all
// remote providers. The requested JSON shape matches AnalysisResult.
func buildAnalysisPrompt(transcriptText string, companyValues []string) string {
	return fmt.Sprintf(`Analyze this meeting transcript and provide insights in JSON format.

TRANSCRIPT:
%s

COMPANY VALUES TO ANALYZE:
%s

Please provide a JSON response with exactly this structure:
{
  "summary": "A concise 2-3 sentence summary of the meeting",
  "actionItems": [
    {
      "text": "Specific action item",
      "priority": "high|medium|low"
    }
  ],
  "keyTopics": [
    {
      "topic": "Topic name",
      "relevance": 0.8
    }
  ],
  "sentiment": {
    "overall": "positive|neutral|negative",
    "score": 0.2
  },
  "companyValuesAlignment": {
    "overallAlignment": 0.7,
    "values": [
      {
        "value": "Company value name",
        "score": 0.8,
        "examples": ["Quote from transcript showing this value"]
      }
    ]
  }
}

Ensure all scores are between 0 and 1, and sentiment score is between -1 and 1.
Provide only valid JSON, no other text.`,
		truncateTranscript(transcriptText),
		formatCompanyValues(companyValues))
}

// buildInsightsPrompt produces the free-text communication-insight prompt.
func buildInsightsPrompt(transcriptText string, talkTimePercentage float64, interruptions int) string {
	return fmt.Sprintf(`Based on this meeting transcript and the objective metrics below, write 2-3 sentences of constructive communication feedback.

METRICS:
- Talk time: %.1f%% of the meeting
- Interruptions: %d

TRANSCRIPT:
%s

Focus on conversational dynamics such as balance of participation, responsiveness, and interruptions. Be specific and encouraging. Respond with plain text only.`,
		talkTimePercentage,
		interruptions,
		truncateTranscript(transcriptText))
}
