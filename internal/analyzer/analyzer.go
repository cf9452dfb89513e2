// Package analyzer asks the chat endpoint four fixed questions about a call
// transcript and pulls rep scores out of the free-text scoring answer.
package analyzer

import (
	"context"
	"sync"

	"repradar-go/internal/logger"
	"repradar-go/internal/provider"
	"repradar-go/internal/types"
)

const (
	ObjectionsPrompt  = "Analyze this sales call transcript and list the top 3 customer objections. Format as bullet points."
	CompetitorsPrompt = "Identify any competitor names or products mentioned in this call. Format as a bulleted list."
	ScoringPrompt     = "Evaluate the salesperson on structure, clarity, confidence, and closing technique. Give a score out of 10 for each criterion and brief explanation."
	CoachingPrompt    = "Provide 3 specific coaching tips to improve this sales call. Focus on handling objections better, clearer messaging, and effective closing."
)

// Stand-ins written into the analysis when the matching call fails.
const (
	ObjectionsError  = "Error analyzing objections"
	CompetitorsError = "Error analyzing competitor mentions"
	ScoringError     = "Error analyzing rep performance"
	CoachingError    = "Error generating coaching tips"
)

// Completer is satisfied by *chat.Client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Analyzer struct {
	chat     Completer
	parallel bool
	log      *logger.Logger
}

// New returns an analyzer. With parallel set the four calls run concurrently;
// the result is identical, only latency changes.
func New(chat Completer, parallel bool, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.Nop()
	}
	return &Analyzer{chat: chat, parallel: parallel, log: log.WithComponent("analyzer")}
}

type question struct {
	name     string
	prompt   string
	fallback string
	answer   *string
}

// Analyze always returns a complete analysis. A failed call leaves its fixed
// error text in place of the answer and never aborts the others.
func (a *Analyzer) Analyze(ctx context.Context, transcript string) types.Analysis {
	var out types.Analysis
	questions := []question{
		{"objections", ObjectionsPrompt, ObjectionsError, &out.Objections},
		{"competitors", CompetitorsPrompt, CompetitorsError, &out.Competitors},
		{"scoring", ScoringPrompt, ScoringError, &out.Scoring},
		{"coaching", CoachingPrompt, CoachingError, &out.Coaching},
	}

	if a.parallel {
		var wg sync.WaitGroup
		for _, q := range questions {
			wg.Add(1)
			go func() {
				defer wg.Done()
				a.ask(ctx, q, transcript)
			}()
		}
		wg.Wait()
	} else {
		for _, q := range questions {
			a.ask(ctx, q, transcript)
		}
	}

	parsed := ParseScores(out.Scoring)
	out.Scores = parsed.Resolved()
	if parsed.Err != nil {
		out.ScoreError = parsed.Err.Error()
		a.log.WithField("reason", string(parsed.Err.Reason)).Info("using fallback rep scores")
	}
	return out
}

func (a *Analyzer) ask(ctx context.Context, q question, transcript string) {
	resp, err := a.chat.Complete(ctx, q.prompt+"\n\n"+transcript)
	if err != nil {
		a.log.WithField("analysis", q.name).WithField("error", provider.Describe(err)).Warn("analysis call failed")
		*q.answer = q.fallback
		return
	}
	*q.answer = resp
}
