package imports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrBadStatus is returned when the source answers with a non-2xx status
var ErrBadStatus = errors.New("bad status")

// ErrTooLarge is returned when the body exceeds the configured cap
var ErrTooLarge = errors.New("source body too large")

// Fetcher downloads the raw catalog feed
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	MaxBytes  int64
}

// NewFetcher builds a fetcher with a bounded client
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64) *Fetcher {
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	}
	return &Fetcher{
		Client:    &http.Client{Transport: base, Timeout: timeout},
		UserAgent: userAgent,
		MaxBytes:  maxBytes,
	}
}

// Fetch performs a single GET of url and returns the body. There is no retry.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "text/csv, application/x-ndjson, text/plain;q=0.9, */*;q=0.1")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	body := io.Reader(resp.Body)
	if f.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, f.MaxBytes)
	}
	return data, nil
}
