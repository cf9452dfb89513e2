package aggregator

import (
	"math"
	"testing"

	"repradar-go/internal/types"
)

func TestAggregate(t *testing.T) {
	reports := []types.CallReport{
		{
			Metrics:  types.Metrics{TalkRatio: 2, FillerFrequency: 0.1, Duration: 100},
			Analysis: types.Analysis{Scores: types.RepScores{"structure": 8, "clarity": 6, "confidence": 9, "closing": 4}},
		},
		{
			Metrics:  types.Metrics{TalkRatio: 1, FillerFrequency: 0.3, Duration: 200},
			Analysis: types.Analysis{Scores: types.RepScores{"structure": 6, "clarity": 8, "confidence": 7, "closing": 6}},
		},
		{Error: "API Error: 500 - boom"},
	}
	ins := Aggregate(reports)
	if ins.Calls != 3 || ins.Failed != 1 {
		t.Fatalf("calls/failed = %d/%d", ins.Calls, ins.Failed)
	}
	if ins.AvgTalkRatio != 1.5 || math.Abs(ins.AvgFillerFrequency-0.2) > 1e-9 || ins.AvgDuration != 150 {
		t.Fatalf("averages = %+v", ins)
	}
	want := map[types.Criterion]float64{"structure": 7, "clarity": 7, "confidence": 8, "closing": 5}
	for c, v := range want {
		if ins.AvgScores[c] != v {
			t.Errorf("%s = %v, want %v", c, ins.AvgScores[c], v)
		}
	}
}

func TestAggregateNoSuccess(t *testing.T) {
	ins := Aggregate([]types.CallReport{{Error: "x"}})
	if ins.Calls != 1 || ins.Failed != 1 || len(ins.AvgScores) != 0 || ins.AvgTalkRatio != 0 {
		t.Fatalf("unexpected insight %+v", ins)
	}
}

func TestAggregateSkipsFallbackScores(t *testing.T) {
	reports := []types.CallReport{
		{
			Metrics:  types.Metrics{Duration: 60},
			Analysis: types.Analysis{Scores: types.FallbackScores(), ScoreError: "score structure: missing_marker"},
		},
		{
			Metrics:  types.Metrics{Duration: 120},
			Analysis: types.Analysis{Scores: types.RepScores{"structure": 9, "clarity": 9, "confidence": 9, "closing": 9}},
		},
	}
	ins := Aggregate(reports)
	if ins.Unscored != 1 || ins.Failed != 0 {
		t.Fatalf("unscored/failed = %d/%d", ins.Unscored, ins.Failed)
	}
	if ins.AvgDuration != 90 {
		t.Fatalf("avg duration = %v, metrics must still cover every analysed call", ins.AvgDuration)
	}
	for _, c := range types.Criteria() {
		if ins.AvgScores[c] != 9 {
			t.Fatalf("avg scores = %v, want 9 for every criterion", ins.AvgScores)
		}
	}
}

func TestAggregateAllUnscored(t *testing.T) {
	ins := Aggregate([]types.CallReport{
		{Analysis: types.Analysis{Scores: types.FallbackScores(), ScoreError: "x"}},
	})
	if ins.Unscored != 1 || len(ins.AvgScores) != 0 {
		t.Fatalf("unexpected insight %+v", ins)
	}
}
