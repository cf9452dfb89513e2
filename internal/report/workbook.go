// Package report renders analysis results as .xlsx workbooks, one sheet per table.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"repradar-go/internal/processor"
	"repradar-go/internal/types"
)

// sheet appends rows to one worksheet and keeps the first error.
type sheet struct {
	f    *excelize.File
	name string
	row  int
	err  error
}

func newSheet(f *excelize.File, name string, first bool) *sheet {
	s := &sheet{f: f, name: name}
	if first {
		s.err = f.SetSheetName(f.GetSheetName(0), name)
	} else {
		_, s.err = f.NewSheet(name)
	}
	return s
}

func (s *sheet) add(vals ...any) {
	if s.err != nil {
		return
	}
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetSheetRow(s.name, cell, &vals)
}

func (s *sheet) header(style int, vals ...any) {
	s.add(vals...)
	if s.err == nil {
		s.err = s.f.SetRowStyle(s.name, s.row, s.row, style)
	}
}

func boldStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
}

// WriteCall writes the workbook for a single analysed call.
func WriteCall(w io.Writer, r types.CallReport) error {
	f := excelize.NewFile()
	defer f.Close()
	bold, err := boldStyle(f)
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}

	sheets := []*sheet{
		overviewSheet(newSheet(f, "Overview", true), bold, r),
		transcriptSheet(newSheet(f, "Transcript", false), bold, r.Segments),
		stagesSheet(newSheet(f, "Stages", false), bold, r.Stages),
		timelineSheet(newSheet(f, "Timeline", false), bold, r.Timeline),
		analysisSheet(newSheet(f, "Analysis", false), bold, r),
	}
	for _, s := range sheets {
		if s.err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, s.err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func overviewSheet(s *sheet, bold int, r types.CallReport) *sheet {
	s.header(bold, "Field", "Value")
	s.add("Session", r.SessionID)
	s.add("Source", r.Source)
	if r.CallID != "" {
		s.add("Call ID", r.CallID)
	}
	if r.Failed() {
		s.add("Error", r.Error)
		return s
	}
	s.add("Call Duration (s)", r.Metrics.Duration)
	s.add("Word Count", r.Metrics.WordCount)
	s.add("Talk Ratio (Rep:Customer)", fmt.Sprintf("%.1f:1", r.Metrics.TalkRatio))
	s.add("Filler Words", r.Metrics.FillerWords)
	s.add("Filler Frequency", r.Metrics.FillerFrequency)
	s.add("Rep Talk Time (s)", r.TalkTime.RepSeconds)
	s.add("Customer Talk Time (s)", r.TalkTime.CustomerSeconds)
	s.add("Rep Share", r.TalkTime.RepShare)
	for _, c := range types.Criteria() {
		s.add("Score: "+c.Title(), fmt.Sprintf("%d/10", r.Analysis.Scores[c]))
	}
	for _, h := range r.Highlights {
		s.add("Highlight", h)
	}
	return s
}

func transcriptSheet(s *sheet, bold int, segs []types.Segment) *sheet {
	s.header(bold, "Start", "End", "Duration", "Text")
	for _, seg := range segs {
		s.add(seg.Start, seg.End, seg.Duration(), seg.Text)
	}
	return s
}

func stagesSheet(s *sheet, bold int, stages types.CallStages) *sheet {
	s.header(bold, "Stage", "Segments", "Text")
	for _, st := range types.Stages() {
		s.add(st.Title(), len(stages[st]), stages.Text(st))
	}
	return s
}

func timelineSheet(s *sheet, bold int, rows []types.TimelineRow) *sheet {
	s.header(bold, "Start", "End", "Speaker", "Stage", "Text")
	for _, r := range rows {
		s.add(r.Start, r.End, string(r.Speaker), r.Stage, r.Text)
	}
	return s
}

func analysisSheet(s *sheet, bold int, r types.CallReport) *sheet {
	s.header(bold, "Section", "Answer")
	s.add("Objections", r.Analysis.Objections)
	s.add("Competitor Mentions", r.Analysis.Competitors)
	s.add("Rep Scoring", r.Analysis.Scoring)
	s.add("Coaching", r.Analysis.Coaching)
	return s
}

// WriteBatch writes a summary sheet and one row per call.
func WriteBatch(w io.Writer, b processor.BatchReport) error {
	f := excelize.NewFile()
	defer f.Close()
	bold, err := boldStyle(f)
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}

	sum := newSheet(f, "Summary", true)
	sum.header(bold, "Field", "Value")
	sum.add("Calls", b.Insight.Calls)
	sum.add("Failed", b.Insight.Failed)
	sum.add("Unscored", b.Insight.Unscored)
	sum.add("Avg Talk Ratio", b.Insight.AvgTalkRatio)
	sum.add("Avg Filler Frequency", b.Insight.AvgFillerFrequency)
	sum.add("Avg Duration (s)", b.Insight.AvgDuration)
	for _, c := range types.Criteria() {
		if v, ok := b.Insight.AvgScores[c]; ok {
			sum.add("Avg "+c.Title(), v)
		}
	}
	sum.add("Insight", b.Action.Insight)
	sum.add("Action", b.Action.Action)
	sum.add("Impact", b.Action.Impact)

	calls := newSheet(f, "Calls", false)
	head := []any{"Call ID", "Source", "Duration (s)", "Words", "Talk Ratio", "Filler Frequency"}
	for _, c := range types.Criteria() {
		head = append(head, c.Title())
	}
	head = append(head, "Error")
	calls.header(bold, head...)
	for _, r := range b.Reports {
		row := []any{r.CallID, r.Source, r.Metrics.Duration, r.Metrics.WordCount, r.Metrics.TalkRatio, r.Metrics.FillerFrequency}
		for _, c := range types.Criteria() {
			if r.Failed() {
				row = append(row, "")
			} else {
				row = append(row, r.Analysis.Scores[c])
			}
		}
		row = append(row, r.Error)
		calls.add(row...)
	}

	for _, s := range []*sheet{sum, calls} {
		if s.err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, s.err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
