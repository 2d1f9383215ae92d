package analysis

import (
	"math"
	"strings"

	"meetinsight-server/pkg/transcript"
)

// Response delay context labels. Classification is a pure function of the
// numeric delay; boundaries are half-open on the right.
const (
	ContextInterruption  = "Interruption"
	ContextQuickResponse = "Quick response"
	ContextNaturalPause  = "Natural pause"
	ContextLongPause     = "Long pause"
)

const unknownSpeaker = "Unknown"

// ComputeSpeakerStats accumulates per-speaker talk time and word counts.
// Percentages are of total transcript duration, rounded to one decimal,
// and are all zero for a zero-duration transcript.
func ComputeSpeakerStats(t *transcript.Transcript) []SpeakerStats {
	type accum struct {
		duration float64
		words    int
	}

	order := make([]string, 0, len(t.Speakers))
	totals := make(map[string]*accum)

	for _, segment := range t.Segments {
		acc, ok := totals[segment.Speaker]
		if !ok {
			acc = &accum{}
			totals[segment.Speaker] = acc
			order = append(order, segment.Speaker)
		}
		acc.duration += segment.Duration()
		acc.words += len(strings.Fields(segment.Text))
	}

	stats := make([]SpeakerStats, 0, len(order))
	for _, speaker := range order {
		acc := totals[speaker]
		percentage := 0.0
		if t.DurationSeconds > 0 {
			percentage = round1(100 * acc.duration / t.DurationSeconds)
		}
		stats = append(stats, SpeakerStats{
			Speaker:         speaker,
			DurationSeconds: acc.duration,
			WordCount:       acc.words,
			Percentage:      percentage,
		})
	}

	return stats
}

// ClassifyDelay maps a signed response delay in seconds to its context label.
func ClassifyDelay(delay float64) string {
	switch {
	case delay < 0:
		return ContextInterruption
	case delay < 0.5:
		return ContextQuickResponse
	case delay < 2:
		return ContextNaturalPause
	default:
		return ContextLongPause
	}
}

// ComputeResponseDelays walks adjacent segment pairs and records a delay for
// every transition into referenceSpeaker from a different speaker. An empty
// referenceSpeaker defaults to the first speaker seen.
func ComputeResponseDelays(t *transcript.Transcript, referenceSpeaker string) ResponseDelayStats {
	if referenceSpeaker == "" {
		referenceSpeaker = t.FirstSpeaker()
	}

	stats := ResponseDelayStats{
		Delays: []ResponseDelay{},
	}

	sum := 0.0
	for i := 1; i < len(t.Segments); i++ {
		prev := t.Segments[i-1]
		cur := t.Segments[i]

		if cur.Speaker != referenceSpeaker || prev.Speaker == referenceSpeaker {
			continue
		}

		delay := cur.Start - prev.End
		context := ClassifyDelay(delay)
		if context == ContextInterruption {
			stats.Interruptions++
		}

		stats.Delays = append(stats.Delays, ResponseDelay{
			AfterSpeaker: prev.Speaker,
			DelaySeconds: delay,
			Context:      context,
		})
		sum += delay
	}

	if len(stats.Delays) > 0 {
		stats.AverageDelay = round2(sum / float64(len(stats.Delays)))
	}

	return stats
}

// CountOverlaps counts adjacent segment pairs where the next segment starts
// before the previous one ends, regardless of speaker. This differs from the
// interruption count, which is scoped to one reference speaker.
func CountOverlaps(t *transcript.Transcript) int {
	count := 0
	for i := 1; i < len(t.Segments); i++ {
		if t.Segments[i].Start < t.Segments[i-1].End {
			count++
		}
	}
	return count
}

// ComputeTurnTaking summarizes turn lengths. A transcript with no segments
// returns a defined zero state rather than an error.
func ComputeTurnTaking(t *transcript.Transcript) TurnTaking {
	if len(t.Segments) == 0 {
		return TurnTaking{
			LongestTurn:  Turn{Speaker: unknownSpeaker},
			ShortestTurn: Turn{Speaker: unknownSpeaker},
		}
	}

	longest := Turn{Speaker: t.Segments[0].Speaker, Duration: t.Segments[0].Duration()}
	shortest := longest
	total := 0.0

	for _, segment := range t.Segments {
		duration := segment.Duration()
		total += duration
		if duration > longest.Duration {
			longest = Turn{Speaker: segment.Speaker, Duration: duration}
		}
		if duration < shortest.Duration {
			shortest = Turn{Speaker: segment.Speaker, Duration: duration}
		}
	}

	return TurnTaking{
		AvgTurnDuration: round2(total / float64(len(t.Segments))),
		LongestTurn:     longest,
		ShortestTurn:    shortest,
		TurnCount:       len(t.Segments),
	}
}

// WordsPerMinute computes each speaker's speaking rate over their own active
// time, rounded to one decimal. Speakers with zero active time get 0.
func WordsPerMinute(t *transcript.Transcript) map[string]float64 {
	durations := make(map[string]float64)
	words := make(map[string]int)

	for _, segment := range t.Segments {
		durations[segment.Speaker] += segment.Duration()
		words[segment.Speaker] += len(strings.Fields(segment.Text))
	}

	wpm := make(map[string]float64, len(durations))
	for speaker, duration := range durations {
		if duration <= 0 {
			wpm[speaker] = 0
			continue
		}
		wpm[speaker] = round1(float64(words[speaker]) / (duration / 60))
	}

	return wpm
}

// Compute assembles the full CommunicationMetrics for one transcript and
// reference speaker. It is a pure function of its inputs and safe to call
// concurrently over independent transcripts.
func Compute(t *transcript.Transcript, referenceSpeaker string) CommunicationMetrics {
	if referenceSpeaker == "" {
		referenceSpeaker = t.FirstSpeaker()
	}

	breakdown := ComputeSpeakerStats(t)
	delays := ComputeResponseDelays(t, referenceSpeaker)

	talkTime := 0.0
	for _, stats := range breakdown {
		if stats.Speaker == referenceSpeaker {
			talkTime = stats.Percentage
			break
		}
	}

	return CommunicationMetrics{
		ReferenceSpeaker:     referenceSpeaker,
		TalkTimePercentage:   talkTime,
		SpeakerBreakdown:     breakdown,
		AverageResponseDelay: delays.AverageDelay,
		ResponseDelays:       delays.Delays,
		Interruptions:        delays.Interruptions,
		OverlapCount:         CountOverlaps(t),
		TurnTaking:           ComputeTurnTaking(t),
		WordsPerMinute:       WordsPerMinute(t),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
