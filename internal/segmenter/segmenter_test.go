package segmenter

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"repradar-go/internal/types"
)

func makeSegments(n int) []types.Segment {
	out := make([]types.Segment, n)
	for i := range out {
		out[i] = types.Segment{Start: float64(i), End: float64(i + 1), Text: fmt.Sprintf("s%d", i)}
	}
	return out
}

func stageSizes(cs types.CallStages) [5]int {
	var sizes [5]int
	for i, st := range types.Stages() {
		sizes[i] = len(cs[st])
	}
	return sizes
}

// Expected stage sizes (intro, discovery, demo, objections, closing) for small calls.
func TestSmallCallTable(t *testing.T) {
	want := map[int][5]int{
		0:  {0, 0, 0, 0, 0},
		1:  {1, 0, 0, 0, 0},
		2:  {1, 1, 0, 0, 0},
		3:  {1, 1, 1, 0, 0},
		4:  {1, 1, 1, 1, 0},
		5:  {1, 1, 1, 1, 1},
		6:  {1, 1, 1, 2, 1},
		7:  {1, 1, 2, 1, 2},
		20: {3, 5, 5, 4, 3},
	}
	for n, sizes := range want {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			if got := stageSizes(Segment(makeSegments(n))); got != sizes {
				t.Fatalf("sizes = %v, want %v", got, sizes)
			}
		})
	}
}

func TestSegmentsPartitionInOrder(t *testing.T) {
	for n := 0; n <= 200; n++ {
		segs := makeSegments(n)
		stages := Segment(segs)
		if len(stages) != 5 {
			t.Fatalf("n=%d: expected 5 stage keys, got %d", n, len(stages))
		}
		var joined []types.Segment
		for _, st := range types.Stages() {
			if stages[st] == nil {
				t.Fatalf("n=%d: stage %s is nil", n, st)
			}
			joined = append(joined, stages[st]...)
		}
		if n == 0 {
			if len(joined) != 0 {
				t.Fatalf("n=0: expected empty stages")
			}
			continue
		}
		if !reflect.DeepEqual(joined, segs) {
			t.Fatalf("n=%d: concatenated stages differ from input", n)
		}
	}
}

func TestBoundariesMonotonic(t *testing.T) {
	for n := 0; n <= 500; n++ {
		b := Boundaries(n)
		prev := 0
		for _, v := range b {
			if v < prev || v > n {
				t.Fatalf("n=%d: bad boundaries %v", n, b)
			}
			prev = v
		}
	}
}

func TestStageOfMatchesSegment(t *testing.T) {
	for n := 1; n <= 40; n++ {
		stages := Segment(makeSegments(n))
		idx := 0
		for _, st := range types.Stages() {
			for range stages[st] {
				if got := StageOf(idx, n); got != st {
					t.Fatalf("n=%d i=%d: StageOf = %s, want %s", n, idx, got, st)
				}
				idx++
			}
		}
	}
}

func TestTimeline(t *testing.T) {
	long := strings.Repeat("x", 60)
	segs := []types.Segment{
		{Start: 0, End: 2, Text: "hi"},
		{Start: 2, End: 5, Text: long},
	}
	rows := Timeline(segs)
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Speaker != types.SpeakerRep || rows[0].Stage != "Intro" || rows[0].Text != "hi" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Speaker != types.SpeakerCustomer || rows[1].Stage != "Discovery" {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[1].Text != strings.Repeat("x", 50)+"..." {
		t.Errorf("row 1 text not truncated: %q", rows[1].Text)
	}
}
