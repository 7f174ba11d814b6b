package pages

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchError is a non-2xx response for URL
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch %s: %d %s\n%s", e.URL, e.StatusCode, e.Status, e.Body)
}

// Cache memoizes converted pages by absolute URL for the life of the process.
// Only successful fetches are stored.
type Cache struct {
	fetcher   Fetcher
	converter Converter

	mu    sync.RWMutex
	pages map[string]string

	fetches singleflight.Group
}

// NewCache creates an empty cache
func NewCache(fetcher Fetcher, converter Converter) *Cache {
	return &Cache{
		fetcher:   fetcher,
		converter: converter,
		pages:     make(map[string]string),
	}
}

// GetPageContent returns "URL: <url>\nContent: <content>" for url, fetching
// and converting it on the first request. A non-2xx response is a *FetchError.
func (c *Cache) GetPageContent(ctx context.Context, url string) (string, error) {
	if page, ok := c.lookup(url); ok {
		log.Printf("Reused existing markdown for %s", url)
		return page, nil
	}

	// The shared fetch outlives any single caller; each caller stops waiting
	// when its own context ends
	ch := c.fetches.DoChan(url, func() (interface{}, error) {
		if page, ok := c.lookup(url); ok {
			return page, nil
		}
		return c.fetch(context.WithoutCancel(ctx), url)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Len returns the number of cached pages
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

func (c *Cache) lookup(url string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	page, ok := c.pages[url]
	return page, ok
}

func (c *Cache) fetch(ctx context.Context, url string) (string, error) {
	resp, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	if !resp.OK() {
		return "", &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(resp.Body),
		}
	}

	content := string(resp.Body)
	if strings.Contains(resp.ContentType, "html") {
		content, err = c.converter.Convert(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to convert %s: %w", url, err)
		}
	}

	page := "URL: " + url + "\nContent: " + content

	c.mu.Lock()
	c.pages[url] = page
	c.mu.Unlock()

	log.Printf("Created markdown for %s", url)
	return page, nil
}
