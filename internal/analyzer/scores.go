package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"repradar-go/internal/types"
)

type Reason string

const (
	ReasonMissingMarker   Reason = "missing_marker"
	ReasonMalformedNumber Reason = "malformed_number"
	ReasonOutOfRange      Reason = "out_of_range"
)

// ScoreError names the first criterion that could not be read.
type ScoreError struct {
	Criterion types.Criterion
	Reason    Reason
	Raw       string
}

func (e *ScoreError) Error() string {
	if e.Reason == ReasonMissingMarker {
		return fmt.Sprintf("score %s: %s", e.Criterion, e.Reason)
	}
	return fmt.Sprintf("score %s: %s %q", e.Criterion, e.Reason, e.Raw)
}

// ScoreParse is either a full set of scores or the reason there is none.
type ScoreParse struct {
	Scores types.RepScores
	Err    *ScoreError
}

func (p ScoreParse) OK() bool { return p.Err == nil }

// Resolved returns the parsed scores, or the fallback set when any
// criterion failed. Failures never yield a partial set.
func (p ScoreParse) Resolved() types.RepScores {
	if p.Err != nil {
		return types.FallbackScores()
	}
	return p.Scores
}

// ParseScores reads "<criterion>: N/10" style answers. For each criterion the
// text after the first "<criterion>:" (case-insensitive) up to the next "/"
// must be an integer between 0 and 10. Out-of-range values such as "12/10"
// count as failures like missing or malformed ones: Err is set and Resolved
// yields the fallback set for every criterion.
func ParseScores(text string) ScoreParse {
	lower := strings.ToLower(text)
	scores := types.RepScores{}
	for _, c := range types.Criteria() {
		marker := string(c) + ":"
		i := strings.Index(lower, marker)
		if i < 0 {
			return ScoreParse{Err: &ScoreError{Criterion: c, Reason: ReasonMissingMarker}}
		}
		rest := lower[i+len(marker):]
		if j := strings.Index(rest, marker); j >= 0 {
			rest = rest[:j]
		}
		if j := strings.Index(rest, "/"); j >= 0 {
			rest = rest[:j]
		}
		raw := strings.TrimSpace(rest)
		n, err := strconv.Atoi(raw)
		if err != nil {
			return ScoreParse{Err: &ScoreError{Criterion: c, Reason: ReasonMalformedNumber, Raw: raw}}
		}
		if n < 0 || n > 10 {
			return ScoreParse{Err: &ScoreError{Criterion: c, Reason: ReasonOutOfRange, Raw: raw}}
		}
		scores[c] = n
	}
	return ScoreParse{Scores: scores}
}
