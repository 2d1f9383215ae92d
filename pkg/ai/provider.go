package ai

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"meetinsight-server/pkg/errors"
)

// PreferenceAuto selects the first available provider in registration order.
const PreferenceAuto = "auto"

// Provider defines the interface for pluggable analysis backends.
type Provider interface {
	// Name returns the provider name
	Name() string

	// IsAvailable reports whether the provider has a usable credential.
	// This is a cheap local check, never a network call.
	IsAvailable() bool

	// AnalyzeTranscript analyzes a transcript against optional company values
	AnalyzeTranscript(ctx context.Context, transcriptText string, companyValues []string) (*AnalysisResult, error)

	// GenerateCommunicationInsights produces a short free-text coaching note
	// from the transcript and its objective metrics
	GenerateCommunicationInsights(ctx context.Context, transcriptText string, talkTimePercentage float64, interruptions int) (string, error)
}

// Adapter holds the configured analysis providers and selects one per the
// configured preference. The first resolved provider is cached for the
// adapter's lifetime; construct a fresh adapter per processing run to avoid
// cross-request state leakage.
type Adapter struct {
	logger     *logrus.Logger
	providers  []Provider
	preference string

	mu       sync.Mutex
	selected Provider
}

// NewAdapter creates an adapter over an ordered list of providers.
// Preference is a provider name or PreferenceAuto.
func NewAdapter(logger *logrus.Logger, preference string, providers ...Provider) *Adapter {
	if preference == "" {
		preference = PreferenceAuto
	}
	return &Adapter{
		logger:     logger,
		providers:  providers,
		preference: strings.ToLower(preference),
	}
}

// GetProvider resolves the provider to use. A configured preference wins when
// that provider is available; otherwise the first available provider in
// registration order is selected. The resolution is cached until
// ResetProvider is called.
func (a *Adapter) GetProvider() (Provider, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.selected != nil {
		return a.selected, nil
	}

	if a.preference != PreferenceAuto {
		for _, provider := range a.providers {
			if strings.ToLower(provider.Name()) != a.preference {
				continue
			}
			if provider.IsAvailable() {
				a.logger.WithField("provider", provider.Name()).Info("Using preferred analysis provider")
				a.selected = provider
				return provider, nil
			}
		}
		a.logger.WithField("preference", a.preference).Warn("Preferred analysis provider not available, falling back to auto-selection")
	}

	for _, provider := range a.providers {
		if provider.IsAvailable() {
			a.logger.WithField("provider", provider.Name()).Info("Auto-selected analysis provider")
			a.selected = provider
			return provider, nil
		}
	}

	return nil, errors.NewNoProviderAvailable("no configured backend has a usable credential")
}

// ResetProvider clears the cached selection. Used when switching
// configuration or for test isolation.
func (a *Adapter) ResetProvider() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = nil
}

// AvailableProviders returns the names of all providers that report a usable
// credential, in registration order.
func (a *Adapter) AvailableProviders() []string {
	available := make([]string, 0, len(a.providers))
	for _, provider := range a.providers {
		if provider.IsAvailable() {
			available = append(available, provider.Name())
		}
	}
	return available
}

// AnalyzeTranscript resolves a provider and delegates. Errors propagate to
// the caller; the adapter does not retry or fall back across providers.
func (a *Adapter) AnalyzeTranscript(ctx context.Context, transcriptText string, companyValues []string) (*AnalysisResult, error) {
	provider, err := a.GetProvider()
	if err != nil {
		return nil, err
	}
	return provider.AnalyzeTranscript(ctx, transcriptText, companyValues)
}

// GenerateCommunicationInsights resolves a provider and delegates.
func (a *Adapter) GenerateCommunicationInsights(ctx context.Context, transcriptText string, talkTimePercentage float64, interruptions int) (string, error) {
	provider, err := a.GetProvider()
	if err != nil {
		return "", err
	}
	return provider.GenerateCommunicationInsights(ctx, transcriptText, talkTimePercentage, interruptions)
}
