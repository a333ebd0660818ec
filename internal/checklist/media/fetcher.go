// Package media downloads submitted photo payloads from the messaging
// provider. The engine calls it only after caption validation succeeds, so a
// failed download never costs a wasted state transition.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxPhotoBytes caps a single downloaded payload at 16 MiB.
const maxPhotoBytes = 16 << 20

// Fetcher retrieves one opaque payload by reference.
type Fetcher interface {
	Fetch(ctx context.Context, payloadRef string) ([]byte, error)
}

// HTTPFetcher downloads payloads over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher builds a fetcher over the provided client.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

// Fetch downloads the payload at payloadRef.
func (f *HTTPFetcher) Fetch(ctx context.Context, payloadRef string) ([]byte, error) {
	payloadRef = strings.TrimSpace(payloadRef)
	if payloadRef == "" {
		return nil, fmt.Errorf("payload reference is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, payloadRef, nil)
	if err != nil {
		return nil, fmt.Errorf("build payload request: %w", err)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payload request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("payload request status %d", res.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(res.Body, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read payload body: %w", err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("payload body is empty")
	}
	if len(content) > maxPhotoBytes {
		return nil, fmt.Errorf("payload exceeds %d bytes", maxPhotoBytes)
	}
	return content, nil
}
