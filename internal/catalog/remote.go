package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osse101/PrizeKiosk_Go/internal/domain"
	"github.com/osse101/PrizeKiosk_Go/internal/logger"
)

// Fetcher retrieves a catalog from somewhere other than the local file
type Fetcher interface {
	Fetch(ctx context.Context) (*Catalog, error)
}

// RemoteFetcher downloads a JSON catalog with a single GET request
type RemoteFetcher struct {
	url     string
	timeout time.Duration
	client  *http.Client
	parser  *Parser
}

// NewRemoteFetcher creates a fetcher for url. A non-positive timeout uses DefaultRemoteTimeout.
func NewRemoteFetcher(url string, timeout time.Duration, client *http.Client) *RemoteFetcher {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	return &RemoteFetcher{
		url:     url,
		timeout: timeout,
		client:  client,
		parser:  NewParser(),
	}
}

// Fetch performs the request. Every failure wraps domain.ErrRemoteCatalog.
func (f *RemoteFetcher) Fetch(ctx context.Context) (*Catalog, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgRemoteFetchStarted, "url", f.url, "timeout", f.timeout)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrRemoteCatalog, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteCatalog, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrRemoteCatalog, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxRemoteBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrRemoteCatalog, err)
	}

	cat, err := f.parser.ParseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteCatalog, err)
	}
	return cat, nil
}
