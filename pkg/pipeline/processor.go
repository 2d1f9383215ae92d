package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"meetinsight-server/pkg/ai"
	"meetinsight-server/pkg/analysis"
	"meetinsight-server/pkg/errors"
	"meetinsight-server/pkg/messaging"
	"meetinsight-server/pkg/metrics"
	"meetinsight-server/pkg/transcript"
)

// Processor runs the full segmentation -> metrics -> analysis pipeline for
// one recording at a time. Construct a fresh ai.Adapter per processing run
// when handling recordings concurrently; the processor itself holds no
// per-job state.
type Processor struct {
	logger           *logrus.Logger
	segmenter        *transcript.Segmenter
	adapter          *ai.Adapter
	publisher        messaging.Publisher
	referenceSpeaker string
	companyValues    []string
}

// Options configures a Processor.
type Options struct {
	Segmenter        *transcript.Segmenter
	Adapter          *ai.Adapter
	Publisher        messaging.Publisher
	ReferenceSpeaker string
	CompanyValues    []string
}

// NewProcessor creates a processor from its collaborators. Publisher may be
// nil, in which case records are returned to the caller but not published.
func NewProcessor(logger *logrus.Logger, opts Options) *Processor {
	return &Processor{
		logger:           logger,
		segmenter:        opts.Segmenter,
		adapter:          opts.Adapter,
		publisher:        opts.Publisher,
		referenceSpeaker: opts.ReferenceSpeaker,
		companyValues:    opts.CompanyValues,
	}
}

// Process runs one job end to end and publishes the merged intelligence
// record. The returned error is non-nil only when no record could be
// produced (input validation) or the record could not be published; a
// semantic-analysis failure is captured inside the record, whose objective
// metrics remain valid.
func (p *Processor) Process(ctx context.Context, req Request) (*Intelligence, error) {
	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.New().String()
	}

	defer metrics.TrackJobInFlight()()
	start := time.Now()

	log := p.logger.WithField("job_id", jobID)
	log.Info("Processing job started")

	tr, err := p.segmentInput(req)
	if err != nil {
		metrics.RecordJob(StatusFailed, time.Since(start))
		log.WithError(err).Error("Segmentation failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"segments": len(tr.Segments),
		"speakers": len(tr.Speakers),
		"duration": tr.DurationSeconds,
	}).Info("Transcript segmented")

	comm := analysis.Compute(tr, p.referenceSpeaker)

	record := &Intelligence{
		JobID:       jobID,
		Status:      StatusCompleted,
		Transcript:  tr,
		Metrics:     &comm,
		ProcessedAt: time.Now().UTC(),
	}

	p.runAnalysis(ctx, log, tr, &comm, record)

	if p.publisher != nil {
		if err := p.publisher.PublishRecord(jobID, record); err != nil {
			metrics.RecordJob(StatusFailed, time.Since(start))
			log.WithError(err).Error("Failed to publish intelligence record")
			return record, errors.Wrap(errors.ErrPublishFailed, err.Error()).WithField("job_id", jobID)
		}
	}

	metrics.RecordJob(record.Status, time.Since(start))
	log.WithField("status", record.Status).Info("Processing job finished")

	return record, nil
}

// segmentInput picks the word-stream or degraded-text path and records
// segmentation metrics.
func (p *Processor) segmentInput(req Request) (*transcript.Transcript, error) {
	start := time.Now()

	var tr *transcript.Transcript
	var err error
	if len(req.Words) > 0 {
		tr, err = p.segmenter.Segment(req.Words)
	} else {
		tr, err = p.segmenter.SegmentText(req.Text, req.DurationSeconds)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordSegmentation(time.Since(start), len(tr.Segments), len(tr.Speakers))
	return tr, nil
}

// runAnalysis performs the structured analysis and the insight generation
// concurrently over the same immutable transcript. A failure in either
// marks the record failed with the error attached; the objective metrics
// are left intact.
func (p *Processor) runAnalysis(ctx context.Context, log *logrus.Entry, tr *transcript.Transcript, comm *analysis.CommunicationMetrics, record *Intelligence) {
	provider, err := p.adapter.GetProvider()
	if err != nil {
		record.Status = StatusFailed
		record.Error = err.Error()
		log.WithError(err).Warn("No analysis provider available, keeping objective metrics only")
		return
	}
	record.Provider = provider.Name()

	var wg sync.WaitGroup
	var analysisErr, insightsErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		stop := metrics.ObserveProviderLatency(provider.Name())
		defer stop()

		result, err := provider.AnalyzeTranscript(ctx, tr.FullText, p.companyValues)
		if err != nil {
			analysisErr = err
			metrics.RecordProviderRequest(provider.Name(), "error")
			return
		}
		record.Analysis = result
		metrics.RecordProviderRequest(provider.Name(), "success")
	}()

	go func() {
		defer wg.Done()
		stop := metrics.ObserveProviderLatency(provider.Name())
		defer stop()

		insights, err := provider.GenerateCommunicationInsights(ctx, tr.FullText, comm.TalkTimePercentage, comm.Interruptions)
		if err != nil {
			insightsErr = err
			metrics.RecordProviderRequest(provider.Name(), "error")
			return
		}
		record.Insights = insights
		metrics.RecordProviderRequest(provider.Name(), "success")
	}()
	wg.Wait()

	if analysisErr != nil || insightsErr != nil {
		record.Status = StatusFailed
		if analysisErr != nil {
			record.Error = analysisErr.Error()
			log.WithError(analysisErr).Error("Transcript analysis failed")
		} else {
			record.Error = insightsErr.Error()
			log.WithError(insightsErr).Error("Insight generation failed")
		}
	}
}
