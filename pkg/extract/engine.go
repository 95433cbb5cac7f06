package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Extraction is the boundary contract with the OCR and speech-to-text
// engines: text plus a confidence score on success, or an error message.
// A non-empty Error is authoritative regardless of the other fields.
type Extraction struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// Failed reports whether the engine declared the extraction unusable.
func (e *Extraction) Failed() bool {
	return e.Error != ""
}

// Engine maps raw bytes (image or audio) to extracted text. The engines
// themselves are external services; only their boundary is modeled here.
type Engine interface {
	Extract(ctx context.Context, payload []byte, contentType string) (*Extraction, error)
}

// HTTPEngine forwards payloads to a configured extraction service.
type HTTPEngine struct {
	endpoint string
	client   *http.Client
}

var _ Engine = &HTTPEngine{}

func NewHTTPEngine(endpoint string) *HTTPEngine {
	return &HTTPEngine{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (e *HTTPEngine) Extract(ctx context.Context, payload []byte, contentType string) (*Extraction, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", e.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var extraction Extraction
	if err := json.Unmarshal(bodyBytes, &extraction); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &extraction, nil
}
