package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"repradar-go/internal/provider"
	"repradar-go/internal/types"
)

type countingTransport struct{ calls int }

func (t *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls++
	return nil, errors.New("network must not be used")
}

func TestMissingAPIKeyMakesNoRequest(t *testing.T) {
	rt := &countingTransport{}
	c := New(&http.Client{Transport: rt}, "http://provider.invalid/v1/audio/transcriptions", "", "voxtral-mini-2507", nil)

	_, err := c.Transcribe(context.Background(), types.AudioSource{URL: "https://example.com/call.mp3"})
	if !errors.Is(err, provider.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if rt.calls != 0 {
		t.Fatalf("expected zero network calls, got %d", rt.calls)
	}
	if got := provider.Describe(err); got != provider.ErrMissingAPIKey.Error() {
		t.Fatalf("Describe = %q", got)
	}
}

func TestNoAudio(t *testing.T) {
	rt := &countingTransport{}
	c := New(&http.Client{Transport: rt}, "http://provider.invalid", "k", "m", nil)
	_, err := c.Transcribe(context.Background(), types.AudioSource{})
	if !errors.Is(err, provider.ErrNoAudio) || rt.calls != 0 {
		t.Fatalf("expected ErrNoAudio without calls, got %v (%d calls)", err, rt.calls)
	}
}

const okBody = `{"text":"hello there","segments":[{"start":0,"end":1.5,"text":"hello"},{"start":1.5,"end":3,"text":"there"}]}`

func TestTranscribeURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("x-api-key = %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("transcription must not send a bearer token")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("file_url") != "https://example.com/call.mp3" ||
			r.PostForm.Get("model") != "voxtral-mini-2507" ||
			r.PostForm.Get("timestamp_granularities") != "segment" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		fmt.Fprint(w, okBody)
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "secret", "voxtral-mini-2507", nil)
	tr, err := c.Transcribe(context.Background(), types.AudioSource{URL: "https://example.com/call.mp3"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if tr.Text != "hello there" || len(tr.Segments) != 2 || tr.Segments[1].End != 3 {
		t.Fatalf("unexpected transcript: %+v", tr)
	}
}

func TestTranscribeFileUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("model") != "voxtral-mini-2507" || r.FormValue("timestamp_granularities") != "segment" {
			t.Errorf("unexpected fields: %v", r.MultipartForm.Value)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "call.wav" || string(data) != "RIFF...." {
			t.Errorf("unexpected upload %q %q", hdr.Filename, data)
		}
		fmt.Fprint(w, okBody)
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "secret", "voxtral-mini-2507", nil)
	src := types.AudioSource{URL: "https://ignored.example.com/a.mp3", FileName: "call.wav", Data: []byte("RIFF....")}
	if _, err := c.Transcribe(context.Background(), src); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
}

func TestNon200IsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad model", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "secret", "m", nil)
	_, err := c.Transcribe(context.Background(), types.AudioSource{URL: "https://example.com/a.mp3"})
	if got, want := provider.Describe(err), "API Error: 400 - bad model\n"; got != want {
		t.Fatalf("Describe = %q, want %q", got, want)
	}
}

func TestMalformedBodyIsException(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, "secret", "m", nil)
	_, err := c.Transcribe(context.Background(), types.AudioSource{URL: "https://example.com/a.mp3"})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if got := provider.Describe(err); len(got) < 10 || got[:10] != "Exception:" {
		t.Fatalf("Describe = %q", got)
	}
}
