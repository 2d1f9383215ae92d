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
	geminiDefaultURL = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiModel      = "gemini-2.0-flash-exp"
)

// GeminiProvider implements the Provider interface against the Google
// Generative Language API.
type GeminiProvider struct {
	logger     *logrus.Logger
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// NewGeminiProvider creates a new Gemini provider with the given API key.
func NewGeminiProvider(logger *logrus.Logger, apiKey string) *GeminiProvider {
	return &GeminiProvider{
		logger:     logger,
		apiKey:     apiKey,
		apiURL:     geminiDefaultURL,
		model:      geminiModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks the credential shape locally, without a network call.
func (p *GeminiProvider) IsAvailable() bool {
	return credentialShapeOK(p.apiKey)
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// AnalyzeTranscript asks Gemini for the structured analysis and
// canonicalizes the response through the validator. Gemini frequently wraps
// JSON in a fenced code block; the validator strips it.
func (p *GeminiProvider) AnalyzeTranscript(ctx context.Context, transcriptText string, companyValues []string) (*AnalysisResult, error) {
	prompt := buildAnalysisPrompt(transcriptText, companyValues)

	content, err := p.generate(ctx, prompt, 0.3)
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

// GenerateCommunicationInsights asks Gemini for a short free-text note.
func (p *GeminiProvider) GenerateCommunicationInsights(ctx context.Context, transcriptText string, talkTimePercentage float64, interruptions int) (string, error) {
	prompt := buildInsightsPrompt(transcriptText, talkTimePercentage, interruptions)

	content, err := p.generate(ctx, prompt, 0.7)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}

// generate performs one generateContent exchange and returns the first
// candidate's text.
func (p *GeminiProvider) generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{Temperature: temperature},
	})
	if err != nil {
		return "", errors.NewProviderCall(p.Name(), fmt.Sprintf("failed to encode request: %v", err))
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", p.apiURL, p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.NewProviderCall(p.Name(), fmt.Sprintf("failed to create request: %v", err))
	}
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

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.NewProviderCall(p.Name(), fmt.Sprintf("failed to decode response: %v", err))
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.NewProviderCall(p.Name(), "empty candidate in response")
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", errors.NewProviderCall(p.Name(), "empty text in response")
	}

	return text, nil
}
