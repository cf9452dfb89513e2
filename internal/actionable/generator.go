package actionable

import (
	"fmt"

	"repradar-go/internal/types"
)

type ActionCard struct {
	Insight string `json:"insight" yaml:"insight"`
	Action  string `json:"action" yaml:"action"`
	Impact  string `json:"impact" yaml:"impact"`
}

var criterionActions = map[types.Criterion]string{
	types.CriterionStructure:  "Open every call with a stated agenda and confirm it before discovery",
	types.CriterionClarity:    "Rehearse a two-sentence value statement and cut filler words",
	types.CriterionConfidence: "Role-play pricing and competitor questions before live calls",
	types.CriterionClosing:    "End every call by asking for a dated next step",
}

// Generate picks the weakest average criterion and the action for it. Ties go
// to the criterion listed first.
func Generate(avg map[types.Criterion]float64) ActionCard {
	if len(avg) == 0 {
		return ActionCard{
			Insight: "No scored calls yet",
			Action:  "Analyze more calls",
			Impact:  "Low immediate intervention",
		}
	}
	var (
		worst  types.Criterion
		lowest = 11.0
	)
	for _, c := range types.Criteria() {
		if v, ok := avg[c]; ok && v < lowest {
			worst, lowest = c, v
		}
	}
	if worst == "" || lowest >= 8 {
		return ActionCard{
			Insight: "All criteria score 8/10 or better",
			Action:  "Keep the current playbook and share winning calls with the team",
			Impact:  "Low immediate intervention",
		}
	}
	return ActionCard{
		Insight: fmt.Sprintf("Weakest criterion is %s (%.1f/10)", worst, lowest),
		Action:  criterionActions[worst],
		Impact:  "Lift the lowest-scoring part of the call first",
	}
}
