package processor

import (
	"time"

	"github.com/google/uuid"

	"repradar-go/internal/segmenter"
	"repradar-go/internal/types"
)

// Session carries everything one analysis produces. It is created per
// request and dropped once its report has been built.
type Session struct {
	ID         string
	CreatedAt  time.Time
	Source     types.AudioSource
	CallID     string
	Transcript types.Transcript
	Stages     types.CallStages
	Metrics    types.Metrics
	TalkTime   types.TalkTime
	Highlights []string
	Timeline   []types.TimelineRow
	Analysis   types.Analysis
}

func newSession(req Request) *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Source:    req.Audio,
		CallID:    req.CallID,
	}
}

// Report renders the session; failure is the displayable error, if any.
func (s *Session) Report(failure string) types.CallReport {
	segs := s.Transcript.Segments
	if segs == nil {
		segs = []types.Segment{}
	}
	stages := s.Stages
	if stages == nil {
		stages = segmenter.Segment(nil)
	}
	highlights := s.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	timeline := s.Timeline
	if timeline == nil {
		timeline = []types.TimelineRow{}
	}
	return types.CallReport{
		SessionID:  s.ID,
		Source:     s.Source.Label(),
		CallID:     s.CallID,
		Transcript: s.Transcript.Text,
		Segments:   segs,
		Stages:     stages,
		Metrics:    s.Metrics,
		TalkTime:   s.TalkTime,
		Highlights: highlights,
		Timeline:   timeline,
		Analysis:   s.Analysis,
		DurationMs: time.Since(s.CreatedAt).Milliseconds(),
		Error:      failure,
	}
}
