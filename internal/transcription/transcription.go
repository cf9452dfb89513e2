package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"repradar-go/internal/logger"
	"repradar-go/internal/provider"
	"repradar-go/internal/types"
)

// Client talks to the provider's audio transcription endpoint. It authenticates
// with the x-api-key header, unlike the chat endpoint.
type Client struct {
	hc     *http.Client
	url    string
	apiKey string
	model  string
	log    *logger.Logger
}

func New(hc *http.Client, endpoint, apiKey, model string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		hc:     hc,
		url:    endpoint,
		apiKey: apiKey,
		model:  model,
		log:    log.WithComponent("transcription"),
	}
}

type transcriptionResponse struct {
	Text     string          `json:"text"`
	Segments []types.Segment `json:"segments"`
}

// Transcribe sends the recording once and returns text plus segment timestamps.
// An uploaded file takes precedence over a URL.
func (c *Client) Transcribe(ctx context.Context, src types.AudioSource) (types.Transcript, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return types.Transcript{}, provider.ErrMissingAPIKey
	}

	var (
		req *http.Request
		err error
	)
	switch {
	case src.HasFile():
		req, err = c.fileRequest(ctx, src)
	case src.URL != "":
		req, err = c.urlRequest(ctx, src.URL)
	default:
		return types.Transcript{}, provider.ErrNoAudio
	}
	if err != nil {
		return types.Transcript{}, fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	log := c.log.WithField("source", src.Label())
	log.Info("sending audio for transcription")
	body, err := provider.Send(c.hc, req)
	if err != nil {
		log.WithField("error", err.Error()).Warn("transcription failed")
		return types.Transcript{}, fmt.Errorf("transcribe: %w", err)
	}

	var out transcriptionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return types.Transcript{}, fmt.Errorf("decode transcription: %w", err)
	}
	log.WithField("segments", len(out.Segments)).Info("transcription complete")
	return types.Transcript{Text: out.Text, Segments: out.Segments}, nil
}

func (c *Client) urlRequest(ctx context.Context, audioURL string) (*http.Request, error) {
	form := url.Values{}
	form.Set("file_url", audioURL)
	form.Set("model", c.model)
	form.Set("timestamp_granularities", "segment")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

func (c *Client) fileRequest(ctx context.Context, src types.AudioSource) (*http.Request, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	name := src.FileName
	if name == "" {
		name = "audio.mp3"
	}
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(src.Data); err != nil {
		return nil, err
	}
	if err := w.WriteField("model", c.model); err != nil {
		return nil, err
	}
	if err := w.WriteField("timestamp_granularities", "segment"); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}
