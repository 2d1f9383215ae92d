package transcript

// Word is a single timestamped word from the upstream speech-to-text
// collaborator. Times are in seconds from the start of the recording.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a contiguous run of words attributed to one synthetic speaker
// label. Segments are produced in input order and never reordered.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker"`
}

// Duration returns the length of the segment in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Transcript is the speaker-segmented result for one recording. It is
// immutable once produced and safe to share across goroutines.
type Transcript struct {
	Segments        []Segment `json:"segments"`
	FullText        string    `json:"full_text"`
	DurationSeconds float64   `json:"duration_seconds"`

	// Speakers holds the distinct speaker labels in first-seen order.
	Speakers []string `json:"speakers"`
}

// FirstSpeaker returns the first speaker label seen, or an empty string for
// a transcript with no segments.
func (t *Transcript) FirstSpeaker() string {
	if len(t.Speakers) == 0 {
		return ""
	}
	return t.Speakers[0]
}
