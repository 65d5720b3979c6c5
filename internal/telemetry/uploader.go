package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Uploader posts batches of telemetry lines as a JSON array
type Uploader struct {
	client   *http.Client
	endpoint string
	authKey  string
	authVal  string
}

// NewUploader creates an uploader for s.EndpointURL
func NewUploader(s Settings, client *http.Client) *Uploader {
	if client == nil {
		client = &http.Client{Timeout: s.HTTPTimeout}
	}
	return &Uploader{
		client:   client,
		endpoint: s.EndpointURL,
		authKey:  s.AuthHeaderKey,
		authVal:  s.AuthHeaderValue,
	}
}

// Upload sends one batch. Any non-2xx status is an error.
func (u *Uploader) Upload(ctx context.Context, batch []json.RawMessage) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if u.authKey != "" && u.authVal != "" {
		req.Header.Set(u.authKey, u.authVal)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("post batch: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post batch: unexpected status %d", resp.StatusCode)
	}
	return nil
}
