// Package segmenter assigns transcript segments to the five call stages by
// position only: fixed fractions of the segment count, never content.
package segmenter

import (
	"slices"

	"repradar-go/internal/types"
)

// Boundaries returns the exclusive end index of intro, discovery, demo and
// objections for n segments. Closing runs from the last boundary to n.
// Each boundary is max(k, floor(ratio*n)) clamped to n, so they never decrease.
func Boundaries(n int) [4]int {
	if n <= 0 {
		return [4]int{}
	}
	b := [4]int{
		max(1, int(float64(n)*0.15)),
		max(2, int(float64(n)*0.4)),
		max(3, int(float64(n)*0.65)),
		max(4, int(float64(n)*0.85)),
	}
	for i := range b {
		b[i] = min(b[i], n)
	}
	return b
}

// Segment splits segs into contiguous stages. Every stage key is present,
// empty stages hold an empty slice.
func Segment(segs []types.Segment) types.CallStages {
	stages := types.CallStages{}
	b := Boundaries(len(segs))
	start := 0
	for i, st := range types.Stages() {
		end := len(segs)
		if i < len(b) {
			end = b[i]
		}
		stages[st] = slices.Clone(segs[start:end])
		if stages[st] == nil {
			stages[st] = []types.Segment{}
		}
		start = end
	}
	return stages
}

// StageOf reports which stage segment i of n falls in.
func StageOf(i, n int) types.Stage {
	all := types.Stages()
	for k, end := range Boundaries(n) {
		if i < end {
			return all[k]
		}
	}
	return types.StageClosing
}

const timelineTextLimit = 50

// Timeline labels each segment with its placeholder speaker and stage.
func Timeline(segs []types.Segment) []types.TimelineRow {
	rows := make([]types.TimelineRow, 0, len(segs))
	for i, s := range segs {
		rows = append(rows, types.TimelineRow{
			Start:   s.Start,
			End:     s.End,
			Speaker: types.SpeakerFor(i),
			Stage:   StageOf(i, len(segs)).Title(),
			Text:    truncate(s.Text, timelineTextLimit),
		})
	}
	return rows
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
