package types

import "strings"

// Segment is a timestamped slice of transcribed speech. Offsets are seconds.
type Segment struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Text  string  `json:"text" yaml:"text"`
}

func (s Segment) Duration() float64 { return s.End - s.Start }

type Stage string

const (
	StageIntro      Stage = "intro"
	StageDiscovery  Stage = "discovery"
	StageDemo       Stage = "demo"
	StageObjections Stage = "objections"
	StageClosing    Stage = "closing"
)

// Stages returns the call stages in narrative order.
func Stages() []Stage {
	return []Stage{StageIntro, StageDiscovery, StageDemo, StageObjections, StageClosing}
}

// Title is the capitalized stage label used in tables.
func (s Stage) Title() string { return capitalize(string(s)) }

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CallStages partitions a segment list into the five stages.
type CallStages map[Stage][]Segment

// Text joins the segment texts of one stage with single spaces.
func (c CallStages) Text(s Stage) string {
	parts := make([]string, 0, len(c[s]))
	for _, seg := range c[s] {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// Speaker is the placeholder attribution used by talk ratio and the timeline:
// even segment indexes belong to the rep, odd ones to the customer.
type Speaker string

const (
	SpeakerRep      Speaker = "Rep"
	SpeakerCustomer Speaker = "Customer"
)

func SpeakerFor(index int) Speaker {
	if index%2 == 0 {
		return SpeakerRep
	}
	return SpeakerCustomer
}

type Metrics struct {
	WordCount       int     `json:"word_count" yaml:"word_count"`
	Duration        float64 `json:"duration" yaml:"duration"`
	TalkRatio       float64 `json:"talk_ratio" yaml:"talk_ratio"`
	FillerWords     int     `json:"filler_words" yaml:"filler_words"`
	FillerFrequency float64 `json:"filler_frequency" yaml:"filler_frequency"`
}

type TalkTime struct {
	RepSeconds      float64 `json:"rep_seconds" yaml:"rep_seconds"`
	CustomerSeconds float64 `json:"customer_seconds" yaml:"customer_seconds"`
	RepShare        float64 `json:"rep_share" yaml:"rep_share"`
}

type TimelineRow struct {
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	Speaker Speaker `json:"speaker" yaml:"speaker"`
	Stage   string  `json:"stage" yaml:"stage"`
	Text    string  `json:"text" yaml:"text"`
}

type Criterion string

const (
	CriterionStructure  Criterion = "structure"
	CriterionClarity    Criterion = "clarity"
	CriterionConfidence Criterion = "confidence"
	CriterionClosing    Criterion = "closing"
)

// Criteria returns the scoring criteria in display order.
func Criteria() []Criterion {
	return []Criterion{CriterionStructure, CriterionClarity, CriterionConfidence, CriterionClosing}
}

func (c Criterion) Title() string { return capitalize(string(c)) }

// RepScores maps each criterion to a 0-10 score.
type RepScores map[Criterion]int

// FallbackScores is used whenever the scoring answer cannot be parsed.
func FallbackScores() RepScores {
	return RepScores{
		CriterionStructure:  7,
		CriterionClarity:    6,
		CriterionConfidence: 8,
		CriterionClosing:    5,
	}
}

// AudioSource references a recording either by URL or by uploaded bytes.
// When both are set the uploaded file wins.
type AudioSource struct {
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	FileName string `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	Data     []byte `json:"-" yaml:"-"`
}

func (a AudioSource) HasFile() bool { return len(a.Data) > 0 }

func (a AudioSource) Empty() bool { return !a.HasFile() && a.URL == "" }

// Label is a short human description of where the audio came from.
func (a AudioSource) Label() string {
	if a.HasFile() {
		return a.FileName
	}
	return a.URL
}

// CallRecord is one row of a batch dataset.
type CallRecord struct {
	CallID   string `json:"call_id" yaml:"call_id"`
	Rep      string `json:"rep,omitempty" yaml:"rep,omitempty"`
	AudioURL string `json:"audio_url" yaml:"audio_url"`
}
