package analysis

// SpeakerStats summarizes one speaker's share of a transcript.
type SpeakerStats struct {
	Speaker         string  `json:"speaker"`
	DurationSeconds float64 `json:"duration_seconds"`
	WordCount       int     `json:"word_count"`
	Percentage      float64 `json:"percentage"`
}

// ResponseDelay records one transition into the reference speaker from a
// different speaker. A negative delay means the reference speaker started
// talking before the previous speaker finished.
type ResponseDelay struct {
	AfterSpeaker string  `json:"after_speaker"`
	DelaySeconds float64 `json:"delay_seconds"`
	Context      string  `json:"context"`
}

// ResponseDelayStats aggregates the response delays for one reference speaker.
type ResponseDelayStats struct {
	Delays        []ResponseDelay `json:"delays"`
	AverageDelay  float64         `json:"average_delay"`
	Interruptions int             `json:"interruptions"`
}

// Turn identifies a single speaking turn by speaker and length.
type Turn struct {
	Speaker  string  `json:"speaker"`
	Duration float64 `json:"duration"`
}

// TurnTaking summarizes turn lengths across the whole transcript.
type TurnTaking struct {
	AvgTurnDuration float64 `json:"avg_turn_duration"`
	LongestTurn     Turn    `json:"longest_turn"`
	ShortestTurn    Turn    `json:"shortest_turn"`
	TurnCount       int     `json:"turn_count"`
}

// CommunicationMetrics is the full set of objective metrics for one
// transcript, computed relative to a reference speaker.
type CommunicationMetrics struct {
	ReferenceSpeaker     string             `json:"reference_speaker"`
	TalkTimePercentage   float64            `json:"talk_time_percentage"`
	SpeakerBreakdown     []SpeakerStats     `json:"speaker_breakdown"`
	AverageResponseDelay float64            `json:"average_response_delay"`
	ResponseDelays       []ResponseDelay    `json:"response_delays"`
	Interruptions        int                `json:"interruptions"`
	OverlapCount         int                `json:"overlap_count"`
	TurnTaking           TurnTaking         `json:"turn_taking"`
	WordsPerMinute       map[string]float64 `json:"words_per_minute"`
}
