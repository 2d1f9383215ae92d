package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"meetinsight-server/pkg/errors"
)

const (
	openAIDefaultURL = "https://api.openai.com/v1/chat/completions"
	openAIModel      = "gpt-4o"
)

// OpenAIProvider implements the Provider interface against the OpenAI chat
// completions API.
type OpenAIProvider struct {
	logger     *logrus.Logger
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// NewOpenAIProvider creates a new OpenAI provider with the given API key.
func NewOpenAIProvider(logger *logrus.Logger, apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		logger:     logger,
		apiKey:     apiKey,
		apiURL:     openAIDefaultURL,
		model:      openAIModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks the credential shape locally, without a network call.
func (p *OpenAIProvider) IsAvailable() bool {
	return credentialShapeOK(p.apiKey)
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeTranscript asks the model for the structured analysis and
// canonicalizes the response through the validator.
func (p *OpenAIProvider) AnalyzeTranscript(ctx context.Context, transcriptText string, companyValues []string) (*AnalysisResult, error) {
	prompt := buildAnalysisPrompt(transcriptText, companyValues)

	content, err := p.complete(ctx, "You are an expert meeting analyst. Provide analysis in valid JSON format only.", prompt, 0.3)
	if err != nil {
		return nil, err
	}

	result, err := ParseAnalysisResponse(content)
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"provider":     p.Name(),
		"action_items": len(result.ActionItems),
		"key_topics":   len(result.KeyTopics),
	}).Info("Transcript analysis completed")

	return result, nil
}

// GenerateCommunicationInsights asks the model for a short free-text note.
func (p *OpenAIProvider) GenerateCommunicationInsights(ctx context.Context, transcriptText string, talkTimePercentage float64, interruptions int) (string, error) {
	prompt := buildInsightsPrompt(transcriptText, talkTimePercentage, interruptions)

	content, err := p.complete(ctx, "You are an expert communication coach.", prompt, 0.7)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}

// complete performs one chat completion exchange and returns the first
// choice's message content.
func (p *OpenAIProvider) complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	body, err := json.Marshal(openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", errors.NewProviderCall(p.Name(), fmt.Sprintf("failed to encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", errors.NewProviderCall(p.Name(), fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", errors.NewProviderCall(p.Name(), fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.NewProviderCall(p.Name(),
			fmt.Sprintf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var parsed openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.NewProviderCall(p.Name(), fmt.Sprintf("failed to decode response: %v", err))
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.NewProviderCall(p.Name(), "empty completion in response")
	}

	return parsed.Choices[0].Message.Content, nil
}
