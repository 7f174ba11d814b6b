package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPPath is the endpoint serving the streamable HTTP transport
const MCPPath = "/mcp"

// Options configures the HTTP front door
type Options struct {
	RedirectURL string  // where every non-MCP path is sent
	RateLimit   float64 // requests per second per client on MCPPath
	RateBurst   int
}

// NewHandler routes MCPPath to the MCP server behind the rate limiter and
// redirects everything else to RedirectURL
func NewHandler(server *mcp.Server, opts Options) http.Handler {
	limiter := NewRateLimiter(opts.RateLimit, opts.RateBurst)
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle(MCPPath, limiter.Middleware(mcpHandler))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, opts.RedirectURL, http.StatusFound)
	})
	return mux
}

// ListenAndServe serves handler on addr until ctx is cancelled
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("✓ Listening on %s (MCP endpoint %s)", addr, MCPPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Printf("Shutting down HTTP server...")
		return srv.Shutdown(shutdownCtx)
	}
}
