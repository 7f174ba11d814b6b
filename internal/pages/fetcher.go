package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultFetchTimeout bounds a single page download
	DefaultFetchTimeout = 30 * time.Second

	// DefaultMaxBodyBytes bounds the size of a downloaded page
	DefaultMaxBodyBytes = 10 << 20

	userAgent = "godot-docs-mcp"
)

// ErrBodyTooLarge is returned for responses longer than the fetcher's limit
var ErrBodyTooLarge = errors.New("response body too large")

// Response is the part of an HTTP response the cache needs
type Response struct {
	StatusCode  int
	Status      string // status text without the code, e.g. "Not Found"
	ContentType string
	Body        []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher downloads a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// HTTPFetcher fetches pages with an http.Client
type HTTPFetcher struct {
	client *http.Client

	// MaxBodyBytes is the largest accepted body; zero means DefaultMaxBodyBytes
	MaxBodyBytes int64
}

// NewHTTPFetcher creates a fetcher; a nil client gets DefaultFetchTimeout
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &HTTPFetcher{client: client}
}

// Fetch issues a GET and reads the whole body. Non-2xx statuses are not
// errors here; the caller decides what they mean.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, url, limit)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Status:      http.StatusText(resp.StatusCode),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
