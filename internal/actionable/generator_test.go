package actionable

import (
	"strings"
	"testing"

	"repradar-go/internal/aggregator"
	"repradar-go/internal/analyzer"
	"repradar-go/internal/types"
)

func TestGenerateWeakest(t *testing.T) {
	card := Generate(map[types.Criterion]float64{"structure": 7, "clarity": 6.5, "confidence": 8, "closing": 5})
	if !strings.Contains(card.Insight, "closing (5.0/10)") {
		t.Fatalf("insight = %q", card.Insight)
	}
	if card.Action != criterionActions[types.CriterionClosing] {
		t.Fatalf("action = %q", card.Action)
	}
}

func TestGenerateTieGoesToFirstCriterion(t *testing.T) {
	card := Generate(map[types.Criterion]float64{"structure": 5, "clarity": 5, "confidence": 9, "closing": 5})
	if !strings.Contains(card.Insight, "structure") {
		t.Fatalf("insight = %q", card.Insight)
	}
}

func TestGenerateStrongAndEmpty(t *testing.T) {
	if card := Generate(map[types.Criterion]float64{"structure": 9, "clarity": 8, "confidence": 9, "closing": 10}); card.Insight != "All criteria score 8/10 or better" {
		t.Fatalf("strong insight = %q", card.Insight)
	}
	if card := Generate(nil); card.Insight != "No scored calls yet" {
		t.Fatalf("empty insight = %q", card.Insight)
	}
}

func TestPlaybook(t *testing.T) {
	pb := Playbook()
	if len(pb) != 4 || pb[0].Objection != "Price" || pb[3].Objection != "Current solution works fine" {
		t.Fatalf("playbook = %+v", pb)
	}
}

func TestGenerateIgnoresUnscoredCalls(t *testing.T) {
	parsed := analyzer.ParseScores("**Structure:** 9/10\n**Clarity:** 9/10\n**Confidence:** 9/10\n**Closing:** 9/10")
	reports := []types.CallReport{
		{Analysis: types.Analysis{Scores: parsed.Resolved(), ScoreError: parsed.Err.Error()}},
		{Analysis: types.Analysis{Scores: types.RepScores{"structure": 4, "clarity": 8, "confidence": 8, "closing": 8}}},
	}
	card := Generate(aggregator.Aggregate(reports).AvgScores)
	if !strings.Contains(card.Insight, "structure (4.0/10)") {
		t.Fatalf("card = %+v", card)
	}
}
