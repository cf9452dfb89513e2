package types

// --------------------------------------------
// Free-text answers from the chat endpoint
// --------------------------------------------
type Analysis struct {
	Objections  string    `json:"objections" yaml:"objections"`
	Competitors string    `json:"competitors" yaml:"competitors"`
	Scoring     string    `json:"scoring" yaml:"scoring"`
	Scores      RepScores `json:"scores" yaml:"scores"`
	// ScoreError explains why Scores holds the fallback set, empty when parsing worked.
	ScoreError string `json:"score_error,omitempty" yaml:"score_error,omitempty"`
	Coaching   string `json:"coaching" yaml:"coaching"`
}

// --------------------------------------------
// Transcription result
// --------------------------------------------
type Transcript struct {
	Text     string    `json:"text" yaml:"text"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

// --------------------------------------------
// Final output for one analysed call
// --------------------------------------------
type CallReport struct {
	SessionID  string        `json:"session_id" yaml:"session_id"`
	Source     string        `json:"source" yaml:"source"`
	CallID     string        `json:"call_id,omitempty" yaml:"call_id,omitempty"`
	Transcript string        `json:"transcript" yaml:"transcript"`
	Segments   []Segment     `json:"segments" yaml:"segments"`
	Stages     CallStages    `json:"stages" yaml:"stages"`
	Metrics    Metrics       `json:"metrics" yaml:"metrics"`
	TalkTime   TalkTime      `json:"talk_time" yaml:"talk_time"`
	Highlights []string      `json:"highlights" yaml:"highlights"`
	Timeline   []TimelineRow `json:"timeline" yaml:"timeline"`
	Analysis   Analysis      `json:"analysis" yaml:"analysis"`
	DurationMs int64         `json:"duration_ms" yaml:"duration_ms"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r CallReport) Failed() bool { return r.Error != "" }
