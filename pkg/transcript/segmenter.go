package transcript

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"meetinsight-server/pkg/errors"
)

// DefaultPauseThreshold is the silence gap, in seconds, that triggers a
// speaker change when no threshold is configured.
const DefaultPauseThreshold = 1.5

// Segmenter converts a flat word stream into speaker-attributed segments
// using a pause-gap heuristic.
//
// This is a pause-based proxy for turn-taking, not acoustic diarization: it
// cannot distinguish two people speaking with short gaps between them, and
// it will over-segment a single speaker who pauses to think. Downstream
// metrics are defined relative to this proxy.
type Segmenter struct {
	logger         *logrus.Logger
	pauseThreshold float64
}

// NewSegmenter creates a segmenter with the given pause threshold. A zero or
// negative threshold falls back to DefaultPauseThreshold.
func NewSegmenter(logger *logrus.Logger, pauseThreshold float64) *Segmenter {
	if pauseThreshold <= 0 {
		pauseThreshold = DefaultPauseThreshold
	}
	return &Segmenter{
		logger:         logger,
		pauseThreshold: pauseThreshold,
	}
}

// Segment walks the word list in input order and opens a new segment under a
// new synthetic speaker label whenever the silence gap between two adjacent
// words exceeds the pause threshold.
//
// Input words must have End >= Start and non-decreasing start times; a
// violation returns an ErrValidation error, never a silently repaired
// transcript.
func (s *Segmenter) Segment(words []Word) (*Transcript, error) {
	if err := validateWords(words); err != nil {
		return nil, err
	}

	if len(words) == 0 {
		return &Transcript{
			Segments: []Segment{},
			Speakers: []string{},
		}, nil
	}

	speakerCount := 1
	segments := make([]Segment, 0)

	current := Segment{
		Start:   words[0].Start,
		End:     words[0].End,
		Text:    words[0].Text,
		Speaker: speakerLabel(speakerCount),
	}

	for i := 1; i < len(words); i++ {
		word := words[i]
		gap := word.Start - words[i-1].End

		if gap > s.pauseThreshold {
			current.Text = strings.TrimSpace(current.Text)
			segments = append(segments, current)

			speakerCount++
			current = Segment{
				Start:   word.Start,
				End:     word.End,
				Text:    word.Text,
				Speaker: speakerLabel(speakerCount),
			}
			continue
		}

		current.Text += " " + word.Text
		current.End = word.End
	}

	current.Text = strings.TrimSpace(current.Text)
	segments = append(segments, current)

	result := &Transcript{
		Segments:        segments,
		FullText:        joinWords(words),
		DurationSeconds: segments[len(segments)-1].End,
		Speakers:        collectSpeakers(segments),
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"words":           len(words),
			"segments":        len(segments),
			"speakers":        len(result.Speakers),
			"duration":        result.DurationSeconds,
			"pause_threshold": s.pauseThreshold,
		}).Debug("Segmented word stream")
	}

	return result, nil
}

// SegmentText handles the degraded input shape: a plain transcript string
// with a known total duration but no word timings. The result is a single
// segment attributed to a single speaker.
func (s *Segmenter) SegmentText(text string, durationSeconds float64) (*Transcript, error) {
	if durationSeconds < 0 {
		return nil, errors.NewValidation(
			fmt.Sprintf("negative duration %.2f", durationSeconds))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return &Transcript{
			Segments: []Segment{},
			Speakers: []string{},
		}, nil
	}

	segment := Segment{
		Start:   0,
		End:     durationSeconds,
		Text:    text,
		Speaker: speakerLabel(1),
	}

	return &Transcript{
		Segments:        []Segment{segment},
		FullText:        text,
		DurationSeconds: durationSeconds,
		Speakers:        []string{segment.Speaker},
	}, nil
}

// validateWords rejects malformed or non-monotonic timestamps.
func validateWords(words []Word) error {
	for i, word := range words {
		if word.End < word.Start {
			return errors.NewValidation(
				fmt.Sprintf("word %d (%q) ends at %.3f before it starts at %.3f",
					i, word.Text, word.End, word.Start))
		}
		if i > 0 && word.Start < words[i-1].Start {
			return errors.NewValidation(
				fmt.Sprintf("word %d (%q) starts at %.3f before previous word at %.3f",
					i, word.Text, word.Start, words[i-1].Start))
		}
	}
	return nil
}

func speakerLabel(n int) string {
	return fmt.Sprintf("Speaker %d", n)
}

func joinWords(words []Word) string {
	texts := make([]string, len(words))
	for i, word := range words {
		texts[i] = word.Text
	}
	return strings.TrimSpace(strings.Join(texts, " "))
}

func collectSpeakers(segments []Segment) []string {
	seen := make(map[string]bool, len(segments))
	speakers := make([]string, 0, len(segments))
	for _, segment := range segments {
		if !seen[segment.Speaker] {
			seen[segment.Speaker] = true
			speakers = append(speakers, segment.Speaker)
		}
	}
	return speakers
}
