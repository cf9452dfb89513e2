// Package chat is a thin client for the provider's chat-completions endpoint,
// optionally referencing the call audio next to the text prompt.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"repradar-go/internal/logger"
	"repradar-go/internal/provider"
)

type Client struct {
	hc          *http.Client
	url         string
	apiKey      string
	model       string
	audioFormat string
	log         *logger.Logger
}

func New(hc *http.Client, endpoint, apiKey, model, audioFormat string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	if audioFormat == "" {
		audioFormat = "mp3"
	}
	return &Client{
		hc:          hc,
		url:         endpoint,
		apiKey:      apiKey,
		model:       model,
		audioFormat: audioFormat,
		log:         log.WithComponent("chat"),
	}
}

type textBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type audioBlock struct {
	Type       string     `json:"type"`
	InputAudio inputAudio `json:"input_audio"`
}

type inputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

type message struct {
	Role    string `json:"role"`
	Content []any  `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a text-only prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithAudio(ctx, prompt, "")
}

// CompleteWithAudio sends the prompt preceded by an input_audio block when
// audioRef is not empty. audioRef is passed through as the block's data.
func (c *Client) CompleteWithAudio(ctx context.Context, prompt, audioRef string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", provider.ErrMissingAPIKey
	}

	content := make([]any, 0, 2)
	if audioRef != "" {
		content = append(content, audioBlock{
			Type:       "input_audio",
			InputAudio: inputAudio{Data: audioRef, Format: c.audioFormat},
		})
	}
	content = append(content, textBlock{Type: "text", Text: prompt})

	payload, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: []message{{Role: "user", Content: content}},
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.log.WithField("payload_len", len(payload)).Debug("sending chat completion")
	body, err := provider.Send(c.hc, req)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return firstChoice(body)
}

// firstChoice extracts choices[0].message.content. Content may be a plain
// string or a list of typed blocks whose text parts are concatenated.
func firstChoice(body []byte) (string, error) {
	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat response has no choices")
	}
	raw := resp.Choices[0].Message.Content

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var blocks []textBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return "", fmt.Errorf("decode chat content: %w", err)
	}
	var b strings.Builder
	for _, blk := range blocks {
		if blk.Type == "text" {
			b.WriteString(blk.Text)
		}
	}
	return b.String(), nil
}
