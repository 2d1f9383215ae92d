package ai

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"meetinsight-server/pkg/errors"
)

// MockAnalysisProvider implements Provider interface for testing
type MockAnalysisProvider struct {
	mock.Mock
}

func (m *MockAnalysisProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAnalysisProvider) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockAnalysisProvider) AnalyzeTranscript(ctx context.Context, transcriptText string, companyValues []string) (*AnalysisResult, error) {
	args := m.Called(ctx, transcriptText, companyValues)
	if result := args.Get(0); result != nil {
		return result.(*AnalysisResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisProvider) GenerateCommunicationInsights(ctx context.Context, transcriptText string, talkTimePercentage float64, interruptions int) (string, error) {
	args := m.Called(ctx, transcriptText, talkTimePercentage, interruptions)
	return args.String(0), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func availableProvider(name string) *MockAnalysisProvider {
	provider := new(MockAnalysisProvider)
	provider.On("Name").Return(name)
	provider.On("IsAvailable").Return(true)
	return provider
}

func unavailableProvider(name string) *MockAnalysisProvider {
	provider := new(MockAnalysisProvider)
	provider.On("Name").Return(name)
	provider.On("IsAvailable").Return(false)
	return provider
}

func TestGetProviderAutoSelectsFirstAvailable(t *testing.T) {
	first := unavailableProvider("first")
	second := availableProvider("second")

	adapter := NewAdapter(testLogger(), PreferenceAuto, first, second)

	provider, err := adapter.GetProvider()
	require.NoError(t, err)
	assert.Equal(t, "second", provider.Name())
}

func TestGetProviderHonorsPreference(t *testing.T) {
	first := availableProvider("first")
	preferred := availableProvider("preferred")

	adapter := NewAdapter(testLogger(), "preferred", first, preferred)

	provider, err := adapter.GetProvider()
	require.NoError(t, err)
	assert.Equal(t, "preferred", provider.Name())
}

func TestGetProviderPreferenceCaseInsensitive(t *testing.T) {
	preferred := availableProvider("Gemini")

	adapter := NewAdapter(testLogger(), "GEMINI", preferred)

	provider, err := adapter.GetProvider()
	require.NoError(t, err)
	assert.Equal(t, "Gemini", provider.Name())
}

func TestGetProviderUnavailablePreferenceFallsBack(t *testing.T) {
	preferred := unavailableProvider("preferred")
	fallback := availableProvider("fallback")

	adapter := NewAdapter(testLogger(), "preferred", preferred, fallback)

	provider, err := adapter.GetProvider()
	require.NoError(t, err)
	assert.Equal(t, "fallback", provider.Name())
}

func TestGetProviderNoneAvailable(t *testing.T) {
	adapter := NewAdapter(testLogger(), PreferenceAuto, unavailableProvider("only"))

	_, err := adapter.GetProvider()
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrNoProviderAvailable))
}

func TestGetProviderCachesSelection(t *testing.T) {
	provider := new(MockAnalysisProvider)
	provider.On("Name").Return("cached")
	// Availability must be evaluated exactly once across repeated calls.
	provider.On("IsAvailable").Return(true).Once()

	adapter := NewAdapter(testLogger(), PreferenceAuto, provider)

	first, err := adapter.GetProvider()
	require.NoError(t, err)
	second, err := adapter.GetProvider()
	require.NoError(t, err)

	assert.Same(t, first.(*MockAnalysisProvider), second.(*MockAnalysisProvider))
	provider.AssertExpectations(t)
}

func TestResetProviderClearsCache(t *testing.T) {
	provider := new(MockAnalysisProvider)
	provider.On("Name").Return("resettable")
	provider.On("IsAvailable").Return(true).Twice()

	adapter := NewAdapter(testLogger(), PreferenceAuto, provider)

	_, err := adapter.GetProvider()
	require.NoError(t, err)

	adapter.ResetProvider()

	_, err = adapter.GetProvider()
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestAvailableProviders(t *testing.T) {
	adapter := NewAdapter(testLogger(), PreferenceAuto,
		availableProvider("one"), unavailableProvider("two"), availableProvider("three"))

	assert.Equal(t, []string{"one", "three"}, adapter.AvailableProviders())
}

func TestAdapterAnalyzeTranscriptDelegates(t *testing.T) {
	provider := availableProvider("delegate")
	expected := &AnalysisResult{Summary: "delegated"}
	provider.On("AnalyzeTranscript", mock.Anything, "transcript text", []string{"Integrity"}).Return(expected, nil)

	adapter := NewAdapter(testLogger(), PreferenceAuto, provider)

	result, err := adapter.AnalyzeTranscript(context.Background(), "transcript text", []string{"Integrity"})
	require.NoError(t, err)
	assert.Equal(t, expected, result)
	provider.AssertExpectations(t)
}

func TestAdapterInsightsDelegates(t *testing.T) {
	provider := availableProvider("delegate")
	provider.On("GenerateCommunicationInsights", mock.Anything, "transcript text", 55.0, 2).Return("insight", nil)

	adapter := NewAdapter(testLogger(), PreferenceAuto, provider)

	insight, err := adapter.GenerateCommunicationInsights(context.Background(), "transcript text", 55.0, 2)
	require.NoError(t, err)
	assert.Equal(t, "insight", insight)
	provider.AssertExpectations(t)
}

func TestAdapterDoesNotFallBackOnCallFailure(t *testing.T) {
	provider := availableProvider("failing")
	callErr := errors.NewProviderCall("failing", "status 500")
	provider.On("AnalyzeTranscript", mock.Anything, mock.Anything, mock.Anything).Return(nil, callErr)

	backup := availableProvider("backup")

	adapter := NewAdapter(testLogger(), PreferenceAuto, provider, backup)

	_, err := adapter.AnalyzeTranscript(context.Background(), "text", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrProviderCall))
	backup.AssertNotCalled(t, "AnalyzeTranscript", mock.Anything, mock.Anything, mock.Anything)
}
