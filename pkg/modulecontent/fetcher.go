package modulecontent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPFetcher reads keys over the bucket's public-read base URL. Recovery
// reads go over plain HTTP GET instead of the authenticated gateway: they
// are best-effort by nature and may target historical or orphaned content.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher for the given public base URL.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPFetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch performs a GET for {base}/{key}. A 404 maps to ErrObjectNotFound so
// the recovery chain can tell "absent" from "broken".
func (f *HTTPFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	url := f.baseURL + "/" + key
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &StorageError{Backend: "http", Key: key, Op: "fetch", Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &StorageError{Backend: "http", Key: key, Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &StorageError{Backend: "http", Key: key, Op: "fetch", Err: ErrObjectNotFound}
	case resp.StatusCode != http.StatusOK:
		return nil, &StorageError{Backend: "http", Key: key, Op: "fetch",
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &StorageError{Backend: "http", Key: key, Op: "fetch", Err: err}
	}
	return data, nil
}

// StoreFetcher reads recovery sources through the blob store gateway. Used
// when no public base URL is configured (development, tests).
type StoreFetcher struct {
	Store BlobStore
}

func (f StoreFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	return f.Store.Get(ctx, key)
}
