package aggregator

import "repradar-go/internal/types"

type Insight struct {
	Calls  int `json:"calls" yaml:"calls"`
	Failed int `json:"failed" yaml:"failed"`
	// Unscored counts analysed calls whose scores are the fallback set.
	// They are left out of AvgScores.
	Unscored           int                         `json:"unscored" yaml:"unscored"`
	AvgScores          map[types.Criterion]float64 `json:"avg_scores" yaml:"avg_scores"`
	AvgTalkRatio       float64                     `json:"avg_talk_ratio" yaml:"avg_talk_ratio"`
	AvgFillerFrequency float64                     `json:"avg_filler_frequency" yaml:"avg_filler_frequency"`
	AvgDuration        float64                     `json:"avg_duration" yaml:"avg_duration"`
}

// Aggregate averages metrics over the calls that were analysed and scores over
// the calls whose scores were actually parsed. Failed calls are only counted.
func Aggregate(reports []types.CallReport) Insight {
	ins := Insight{Calls: len(reports), AvgScores: map[types.Criterion]float64{}}
	totals := map[types.Criterion]int{}
	ok, scored := 0, 0
	for _, r := range reports {
		if r.Failed() {
			ins.Failed++
			continue
		}
		ok++
		ins.AvgTalkRatio += r.Metrics.TalkRatio
		ins.AvgFillerFrequency += r.Metrics.FillerFrequency
		ins.AvgDuration += r.Metrics.Duration
		if r.Analysis.ScoreError != "" {
			ins.Unscored++
			continue
		}
		scored++
		for c, v := range r.Analysis.Scores {
			totals[c] += v
		}
	}
	if ok == 0 {
		return ins
	}
	n := float64(ok)
	ins.AvgTalkRatio /= n
	ins.AvgFillerFrequency /= n
	ins.AvgDuration /= n
	if scored == 0 {
		return ins
	}
	for c, sum := range totals {
		ins.AvgScores[c] = float64(sum) / float64(scored)
	}
	return ins
}
