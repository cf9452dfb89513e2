// Package provider holds the HTTP plumbing and error taxonomy shared by the
// transcription and chat clients.
package provider

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrMissingAPIKey is reported before any request is built.
	ErrMissingAPIKey = errors.New("API key is required. Please provide a Mistral API key via the api_key field, --api-key or MISTRAL_API_KEY.")
	ErrNoAudio       = errors.New("No audio provided")
)

// APIError is any non-200 answer from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d - %s", e.StatusCode, e.Body)
}

// NewHTTPClient returns a client with transport defaults only. Provider calls
// carry no timeout of their own.
func NewHTTPClient() *http.Client {
	return &http.Client{}
}

// Send performs req once and returns the body of a 200 response.
func Send(hc *http.Client, req *http.Request) ([]byte, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// Describe turns any pipeline error into the string shown to the user.
// Known failures keep their own message; everything else is a local exception.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		return ErrMissingAPIKey.Error()
	case errors.Is(err, ErrNoAudio):
		return ErrNoAudio.Error()
	case errors.As(err, &apiErr):
		return apiErr.Error()
	}
	return "Exception: " + err.Error()
}
