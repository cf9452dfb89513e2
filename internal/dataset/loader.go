package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"repradar-go/internal/types"
)

// Load reads call records from the first sheet of an .xlsx workbook.
func Load(path string) ([]types.CallRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return readRecords(f)
}

// LoadReader is Load for an uploaded workbook.
func LoadReader(r io.Reader) ([]types.CallRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readRecords(f)
}

// readRecords detects the audio URL, call ID and rep columns from the header
// row. Rows whose audio cell is not an http(s) URL are skipped.
func readRecords(f *excelize.File) ([]types.CallRecord, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	audioIdx, callIDIdx, repIdx := -1, -1, -1
	for i, h := range rows[0] {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "audio") || strings.Contains(l, "recording") || strings.Contains(l, "url") || strings.Contains(l, "link"):
			if audioIdx == -1 {
				audioIdx = i
			}
		case l == "id" || strings.Contains(l, "call id") || strings.Contains(l, "callid") || strings.Contains(l, "call_id"):
			if callIDIdx == -1 {
				callIDIdx = i
			}
		case strings.Contains(l, "rep") || strings.Contains(l, "agent") || strings.Contains(l, "salesperson"):
			if repIdx == -1 {
				repIdx = i
			}
		}
	}
	if audioIdx == -1 {
		return nil, fmt.Errorf("no audio url column in header %v", rows[0])
	}

	var out []types.CallRecord
	for i, r := range rows[1:] {
		rec := types.CallRecord{
			CallID:   cell(r, callIDIdx),
			Rep:      cell(r, repIdx),
			AudioURL: cell(r, audioIdx),
		}
		lower := strings.ToLower(rec.AudioURL)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			continue
		}
		if rec.CallID == "" {
			rec.CallID = fmt.Sprintf("row-%d", i+2)
		}
		out = append(out, rec)
	}
	return out, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
