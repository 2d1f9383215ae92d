package pipeline

import (
	"time"

	"meetinsight-server/pkg/ai"
	"meetinsight-server/pkg/analysis"
	"meetinsight-server/pkg/transcript"
)

// Job status lifecycle. A job that produced a transcript and metrics but
// failed semantic analysis is marked failed with the error attached; its
// objective metrics are still published.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Request describes one recording to process. Either Words or the degraded
// Text+DurationSeconds pair must be supplied. An empty JobID gets a
// generated UUID.
type Request struct {
	JobID           string            `json:"job_id"`
	Words           []transcript.Word `json:"words"`
	Text            string            `json:"text"`
	DurationSeconds float64           `json:"duration_seconds"`
}

// Intelligence is the merged record handed to the downstream persistence
// collaborator, keyed by job ID. It imposes no schema beyond JSON
// serializability.
type Intelligence struct {
	JobID       string                         `json:"job_id"`
	Status      string                         `json:"status"`
	Transcript  *transcript.Transcript         `json:"transcript"`
	Metrics     *analysis.CommunicationMetrics `json:"metrics"`
	Analysis    *ai.AnalysisResult             `json:"analysis,omitempty"`
	Insights    string                         `json:"insights,omitempty"`
	Provider    string                         `json:"provider,omitempty"`
	Error       string                         `json:"error,omitempty"`
	ProcessedAt time.Time                      `json:"processed_at"`
}
