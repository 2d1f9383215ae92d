package pipeline

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetinsight-server/pkg/ai"
	"meetinsight-server/pkg/errors"
	"meetinsight-server/pkg/messaging"
	"meetinsight-server/pkg/metrics"
	"meetinsight-server/pkg/transcript"
)

func init() {
	metrics.EnableMetrics(false)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func newTestProcessor(t *testing.T, providers ...ai.Provider) (*Processor, *messaging.MemoryPublisher) {
	t.Helper()

	logger := testLogger()
	if len(providers) == 0 {
		providers = []ai.Provider{ai.NewMockProvider(logger)}
	}

	publisher := messaging.NewMemoryPublisher()
	processor := NewProcessor(logger, Options{
		Segmenter:     transcript.NewSegmenter(logger, 1.5),
		Adapter:       ai.NewAdapter(logger, ai.PreferenceAuto, providers...),
		Publisher:     publisher,
		CompanyValues: []string{"Innovation"},
	})
	return processor, publisher
}

func conversationWords() []transcript.Word {
	return []transcript.Word{
		{Text: "Hi", Start: 0, End: 0.3},
		{Text: "there", Start: 0.3, End: 0.6},
		{Text: "Hello", Start: 3.0, End: 3.4},
	}
}

func TestProcessEndToEnd(t *testing.T) {
	processor, publisher := newTestProcessor(t)

	record, err := processor.Process(context.Background(), Request{
		JobID: "job-1",
		Words: conversationWords(),
	})
	require.NoError(t, err)

	assert.Equal(t, "job-1", record.JobID)
	assert.Equal(t, StatusCompleted, record.Status)
	assert.Equal(t, "mock", record.Provider)
	assert.Empty(t, record.Error)

	require.NotNil(t, record.Transcript)
	assert.Len(t, record.Transcript.Segments, 2)
	assert.Equal(t, []string{"Speaker 1", "Speaker 2"}, record.Transcript.Speakers)

	require.NotNil(t, record.Metrics)
	assert.Equal(t, "Speaker 1", record.Metrics.ReferenceSpeaker)

	require.NotNil(t, record.Analysis)
	assert.NotEmpty(t, record.Analysis.Summary)
	require.NotNil(t, record.Analysis.CompanyValuesAlignment)
	assert.NotEmpty(t, record.Insights)

	published, ok := publisher.Record("job-1")
	require.True(t, ok)
	assert.Equal(t, record, published)
}

func TestProcessGeneratesJobID(t *testing.T) {
	processor, publisher := newTestProcessor(t)

	record, err := processor.Process(context.Background(), Request{Words: conversationWords()})
	require.NoError(t, err)

	assert.NotEmpty(t, record.JobID)
	assert.Equal(t, []string{record.JobID}, publisher.JobIDs())
}

func TestProcessDegradedTextInput(t *testing.T) {
	processor, _ := newTestProcessor(t)

	record, err := processor.Process(context.Background(), Request{
		JobID:           "job-degraded",
		Text:            "plain transcript with no timings",
		DurationSeconds: 90,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, record.Status)
	require.Len(t, record.Transcript.Segments, 1)
	assert.Equal(t, 90.0, record.Transcript.DurationSeconds)
	assert.Equal(t, []string{"Speaker 1"}, record.Transcript.Speakers)
}

func TestProcessValidationErrorProducesNoRecord(t *testing.T) {
	processor, publisher := newTestProcessor(t)

	_, err := processor.Process(context.Background(), Request{
		JobID: "job-bad",
		Words: []transcript.Word{{Text: "bad", Start: 2, End: 1}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrValidation))
	assert.Empty(t, publisher.JobIDs())
}

func TestProcessNoProviderKeepsMetrics(t *testing.T) {
	logger := testLogger()
	publisher := messaging.NewMemoryPublisher()
	processor := NewProcessor(logger, Options{
		Segmenter: transcript.NewSegmenter(logger, 1.5),
		Adapter:   ai.NewAdapter(logger, ai.PreferenceAuto, ai.NewOpenAIProvider(logger, "")),
		Publisher: publisher,
	})

	record, err := processor.Process(context.Background(), Request{
		JobID: "job-noprov",
		Words: conversationWords(),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, record.Status)
	assert.NotEmpty(t, record.Error)
	assert.Nil(t, record.Analysis)

	// Objective metrics survive the analysis failure and are published.
	require.NotNil(t, record.Metrics)
	assert.Len(t, record.Transcript.Segments, 2)
	_, ok := publisher.Record("job-noprov")
	assert.True(t, ok)
}

func TestProcessAnalysisFailureKeepsMetrics(t *testing.T) {
	provider := new(failingProvider)
	processor, publisher := newTestProcessor(t, provider)

	record, err := processor.Process(context.Background(), Request{
		JobID: "job-failing",
		Words: conversationWords(),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, record.Status)
	assert.NotEmpty(t, record.Error)
	require.NotNil(t, record.Metrics)

	_, ok := publisher.Record("job-failing")
	assert.True(t, ok)
}

func TestProcessWithoutPublisher(t *testing.T) {
	logger := testLogger()
	processor := NewProcessor(logger, Options{
		Segmenter: transcript.NewSegmenter(logger, 1.5),
		Adapter:   ai.NewAdapter(logger, ai.PreferenceAuto, ai.NewMockProvider(logger)),
	})

	record, err := processor.Process(context.Background(), Request{Words: conversationWords()})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, record.Status)
}

// failingProvider reports availability but fails every call.
type failingProvider struct{}

func (p *failingProvider) Name() string      { return "failing" }
func (p *failingProvider) IsAvailable() bool { return true }

func (p *failingProvider) AnalyzeTranscript(ctx context.Context, transcriptText string, companyValues []string) (*ai.AnalysisResult, error) {
	return nil, errors.NewProviderCall(p.Name(), "status 500")
}

func (p *failingProvider) GenerateCommunicationInsights(ctx context.Context, transcriptText string, talkTimePercentage float64, interruptions int) (string, error) {
	return "", errors.NewProviderCall(p.Name(), "status 500")
}
