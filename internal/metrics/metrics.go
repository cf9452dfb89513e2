package metrics

import (
	"strings"

	"repradar-go/internal/types"
)

// FillerWords are counted as case-insensitive substrings, so "like" also
// matches inside "likely".
func FillerWords() []string {
	return []string{"um", "uh", "like", "you know", "actually", "basically"}
}

// HighlightKeywords mark segments worth surfacing in the overview.
func HighlightKeywords() []string {
	return []string{"price", "cost", "budget", "competitor", "timeline", "deadline", "alternative", "concern", "issue"}
}

// Extract derives the overview metrics from the transcript and its segments.
func Extract(transcript string, segs []types.Segment) types.Metrics {
	words := WordCount(transcript)
	fillers := FillerCount(transcript)

	var duration float64
	if len(segs) > 0 {
		duration = segs[len(segs)-1].End
	}

	return types.Metrics{
		WordCount:       words,
		Duration:        duration,
		TalkRatio:       TalkRatio(segs),
		FillerWords:     fillers,
		FillerFrequency: float64(fillers) / float64(max(words, 1)),
	}
}

func WordCount(transcript string) int {
	return len(strings.Fields(transcript))
}

// FillerCount sums non-overlapping occurrences of every filler word.
func FillerCount(transcript string) int {
	lower := strings.ToLower(transcript)
	n := 0
	for _, w := range FillerWords() {
		n += strings.Count(lower, w)
	}
	return n
}

// TalkRatio is rep time over customer time with speakers alternating by
// segment index. Customer time of zero counts as one second.
func TalkRatio(segs []types.Segment) float64 {
	tt := talkSeconds(segs)
	customer := tt.CustomerSeconds
	if customer == 0 {
		customer = 1
	}
	return tt.RepSeconds / customer
}

// TalkTime reports both sides' seconds and the rep's share of the total.
func TalkTime(segs []types.Segment) types.TalkTime {
	tt := talkSeconds(segs)
	if total := tt.RepSeconds + tt.CustomerSeconds; total != 0 {
		tt.RepShare = tt.RepSeconds / total
	}
	return tt
}

func talkSeconds(segs []types.Segment) types.TalkTime {
	var tt types.TalkTime
	for i, s := range segs {
		if types.SpeakerFor(i) == types.SpeakerRep {
			tt.RepSeconds += s.Duration()
		} else {
			tt.CustomerSeconds += s.Duration()
		}
	}
	return tt
}

// Highlights returns, in order, the text of every segment mentioning a
// highlight keyword. A segment is listed once however many keywords it has.
func Highlights(segs []types.Segment) []string {
	out := []string{}
	for _, s := range segs {
		lower := strings.ToLower(s.Text)
		for _, kw := range HighlightKeywords() {
			if strings.Contains(lower, kw) {
				out = append(out, s.Text)
				break
			}
		}
	}
	return out
}
