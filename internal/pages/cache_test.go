package pages_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/james2doyle/godot-docs-mcp/internal/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docsServer serves nodePage as HTML, /raw.txt as plain text and 404 elsewhere,
// counting requests per path
type docsServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newDocsServer(t *testing.T) *docsServer {
	t.Helper()
	s := &docsServer{hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()

		switch r.URL.Path {
		case "/stable/classes/class_node3d.html", "/stable/empty.html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if r.URL.Path == "/stable/empty.html" {
				w.Write([]byte(`<html><body><p>nothing</p></body></html>`))
				return
			}
			w.Write([]byte(nodePage))
		case "/stable/raw.txt":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("<b>raw</b> body"))
		default:
			http.Error(w, "page missing", http.StatusNotFound)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *docsServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func newTestCache(s *docsServer) *pages.Cache {
	return pages.NewCache(pages.NewHTTPFetcher(s.Client()), pages.NewMarkdownConverter(pages.ConverterOptions{}))
}

func TestCache_FetchesOnce(t *testing.T) {
	server := newDocsServer(t)
	cache := newTestCache(server)
	url := server.URL + "/stable/classes/class_node3d.html"

	first, err := cache.GetPageContent(context.Background(), url)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "URL: "+url+"\nContent: "), "unexpected page: %q", first)
	assert.Contains(t, first, "# Node3D")

	second, err := cache.GetPageContent(context.Background(), url)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, server.Hits("/stable/classes/class_node3d.html"))
	assert.Equal(t, 1, cache.Len())
}

func TestCache_RawBodyForNonHTML(t *testing.T) {
	server := newDocsServer(t)
	cache := newTestCache(server)
	url := server.URL + "/stable/raw.txt"

	page, err := cache.GetPageContent(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "URL: "+url+"\nContent: <b>raw</b> body", page)
}

func TestCache_FetchFailureNotCached(t *testing.T) {
	server := newDocsServer(t)
	cache := newTestCache(server)
	url := server.URL + "/stable/missing.html"

	for i := 0; i < 2; i++ {
		_, err := cache.GetPageContent(context.Background(), url)
		require.Error(t, err)

		var fetchErr *pages.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
		assert.Equal(t, "Not Found", fetchErr.Status)
		assert.Contains(t, fetchErr.Body, "page missing")
		assert.True(t, strings.HasPrefix(err.Error(), "Failed to fetch "+url+": 404 Not Found\n"))
	}

	assert.Equal(t, 2, server.Hits("/stable/missing.html"))
	assert.Equal(t, 0, cache.Len())
}

func TestCache_ConversionFailureNotCached(t *testing.T) {
	server := newDocsServer(t)
	cache := newTestCache(server)

	_, err := cache.GetPageContent(context.Background(), server.URL+"/stable/empty.html")
	require.Error(t, err)
	assert.ErrorIs(t, err, pages.ErrContentNotFound)
	assert.Equal(t, 0, cache.Len())
}

type countingFetcher struct {
	calls   atomic.Int32
	release chan struct{}
}

func (f *countingFetcher) Fetch(ctx context.Context, url string) (*pages.Response, error) {
	f.calls.Add(1)
	<-f.release
	return &pages.Response{StatusCode: 200, Status: "OK", ContentType: "text/plain", Body: []byte("body")}, nil
}

func TestCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	fetcher := &countingFetcher{release: make(chan struct{})}
	cache := pages.NewCache(fetcher, pages.NewMarkdownConverter(pages.ConverterOptions{}))

	const callers = 10
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cache.GetPageContent(context.Background(), "https://docs.example.org/page.html")
		}(i)
	}

	// let the callers pile up on the in-flight fetch before releasing it
	for fetcher.calls.Load() == 0 {
		runtime.Gosched()
	}
	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, int32(1), fetcher.calls.Load())
	for _, r := range results {
		assert.Equal(t, "URL: https://docs.example.org/page.html\nContent: body", r)
	}
}

// blockingFetcher holds every fetch until release, or until the fetch context ends
type blockingFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (f *blockingFetcher) Fetch(ctx context.Context, url string) (*pages.Response, error) {
	if f.calls.Add(1) == 1 {
		close(f.started)
	}
	select {
	case <-f.release:
		return &pages.Response{StatusCode: 200, Status: "OK", ContentType: "text/plain", Body: []byte("body")}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCache_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
	cache := pages.NewCache(fetcher, pages.NewMarkdownConverter(pages.ConverterOptions{}))
	const url = "https://docs.example.org/slow.html"

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.GetPageContent(ctx, url)
		firstErr <- err
	}()
	<-fetcher.started

	type result struct {
		page string
		err  error
	}
	second := make(chan result, 1)
	go func() {
		page, err := cache.GetPageContent(context.Background(), url)
		second <- result{page, err}
	}()
	// give the second caller time to join the in-flight fetch
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(fetcher.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "URL: "+url+"\nContent: body", res.page)
	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.Equal(t, 1, cache.Len())
}
