package processor

import (
	"context"
	"net/http"
	"strings"

	"repradar-go/internal/actionable"
	"repradar-go/internal/aggregator"
	"repradar-go/internal/analyzer"
	"repradar-go/internal/chat"
	"repradar-go/internal/config"
	"repradar-go/internal/logger"
	"repradar-go/internal/metrics"
	"repradar-go/internal/provider"
	"repradar-go/internal/segmenter"
	"repradar-go/internal/transcription"
	"repradar-go/internal/types"
)

// Processor runs the analysis pipeline:
// transcription -> segmentation -> metrics -> chat analyses.
type Processor struct {
	cfg *config.Config
	hc  *http.Client
	log *logger.Logger
}

func New(cfg *config.Config, hc *http.Client, log *logger.Logger) *Processor {
	if hc == nil {
		hc = provider.NewHTTPClient()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Processor{cfg: cfg, hc: hc, log: log.WithComponent("processor")}
}

type Request struct {
	Audio types.AudioSource
	// APIKey overrides the configured key when not empty.
	APIKey string
	CallID string
}

// Process analyses one call. The returned report is always usable: when
// transcription fails it carries the displayable error and err is non-nil.
func (p *Processor) Process(ctx context.Context, req Request) (types.CallReport, error) {
	sess := newSession(req)
	log := p.log.WithSession(sess.ID)
	log.WithField("source", req.Audio.Label()).Info("analysis started")

	key := p.cfg.ResolveAPIKey(req.APIKey)
	if strings.TrimSpace(key) == "" {
		return sess.Report(provider.Describe(provider.ErrMissingAPIKey)), provider.ErrMissingAPIKey
	}
	if req.Audio.Empty() {
		return sess.Report(provider.Describe(provider.ErrNoAudio)), provider.ErrNoAudio
	}

	tr := transcription.New(p.hc, p.cfg.TranscribeURL, key, p.cfg.Model, log)
	transcript, err := tr.Transcribe(ctx, req.Audio)
	if err != nil {
		log.WithError(err).Warn("transcription error")
		return sess.Report(provider.Describe(err)), err
	}
	sess.Transcript = transcript

	segs := transcript.Segments
	sess.Stages = segmenter.Segment(segs)
	sess.Timeline = segmenter.Timeline(segs)
	sess.Metrics = metrics.Extract(transcript.Text, segs)
	sess.TalkTime = metrics.TalkTime(segs)
	sess.Highlights = metrics.Highlights(segs)

	cc := chat.New(p.hc, p.cfg.ChatURL, key, p.cfg.Model, p.cfg.AudioFormat, log)
	sess.Analysis = analyzer.New(cc, p.cfg.Analysis.Parallel, log).Analyze(ctx, transcript.Text)

	report := sess.Report("")
	log.WithField("duration_ms", report.DurationMs).Info("analysis finished")
	return report, nil
}

type BatchReport struct {
	Reports []types.CallReport    `json:"reports" yaml:"reports"`
	Insight aggregator.Insight    `json:"insight" yaml:"insight"`
	Action  actionable.ActionCard `json:"action" yaml:"action"`
}

// ProcessBatch analyses up to limit records one after another. A failing call
// is recorded in its report and does not stop the batch.
func (p *Processor) ProcessBatch(ctx context.Context, records []types.CallRecord, limit int, apiKey string) BatchReport {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	reports := make([]types.CallReport, 0, len(records))
	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		p.log.WithField("call_id", rec.CallID).WithField("audio_url", rec.AudioURL).Info("processing batch call")
		res, _ := p.Process(ctx, Request{
			Audio:  types.AudioSource{URL: rec.AudioURL},
			APIKey: apiKey,
			CallID: rec.CallID,
		})
		reports = append(reports, res)
	}

	ins := aggregator.Aggregate(reports)
	return BatchReport{
		Reports: reports,
		Insight: ins,
		Action:  actionable.Generate(ins.AvgScores),
	}
}
