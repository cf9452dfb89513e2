package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
)

func TestJSONOutputCarriesRequestFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Environment: "production", Level: "debug", Output: &buf})

	r := httptest.NewRequest("POST", "/analyze", nil)
	r.Header.Set("X-Request-ID", "req-123")
	log.WithRequest(r).WithSession("s-1").WithError(errors.New("boom")).Warn("analysis failed")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	for k, want := range map[string]string{
		"req_id":     "req-123",
		"path":       "/analyze",
		"session_id": "s-1",
		"error":      "boom",
		"level":      "warning",
		"msg":        "analysis failed",
	} {
		if line[k] != want {
			t.Errorf("%s = %v, want %q", k, line[k], want)
		}
	}
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Environment: "production", Output: &buf})
	log.WithRequest(httptest.NewRequest("GET", "/healthz", nil)).Info("health check")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatal(err)
	}
	if id, _ := line["req_id"].(string); len(id) != 36 {
		t.Fatalf("expected uuid req_id, got %v", line["req_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Environment: "production", Level: "error", Output: &buf})
	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at error level, got %q", buf.String())
	}
}
