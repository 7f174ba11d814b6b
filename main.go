package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/james2doyle/godot-docs-mcp/internal/config"
	"github.com/james2doyle/godot-docs-mcp/internal/httpserver"
	"github.com/james2doyle/godot-docs-mcp/internal/pages"
	"github.com/james2doyle/godot-docs-mcp/internal/search"
	"github.com/james2doyle/godot-docs-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	version    = "1.0.0"
	serverName = "Godot Documentation"
	binaryName = "godot-docs-mcp"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	httpAddr := flag.String("http", "", "serve streamable HTTP on this address instead of stdio")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s version %s\n", binaryName, version)
		os.Exit(0)
	}

	// Set up logging to stderr (MCP uses stdout for protocol)
	log.SetOutput(os.Stderr)
	log.Printf("%s v%s starting...", binaryName, version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	store, docs, err := createDocSearch(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize documentation search: %v", err)
	}

	// Set up cleanup on shutdown
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing index store: %v", err)
		}
	}()

	server := createMCPServer(docs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPAddr != "" {
		handler := httpserver.NewHandler(server, httpserver.Options{
			RedirectURL: cfg.RedirectURL,
			RateLimit:   cfg.RateLimit,
			RateBurst:   cfg.RateBurst,
		})
		if err := httpserver.ListenAndServe(ctx, cfg.HTTPAddr, handler); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	log.Printf("✓ Server ready and waiting for connections")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Fatalf("Server error: %v", err)
	}
}

// createDocSearch wires the index store, ranker, resolver and page cache
func createDocSearch(cfg *config.Config) (*search.Store, *tools.DocSearch, error) {
	registry, err := search.NewProviderRegistry(cfg.Versions, search.NewDirDataProvider(cfg.DataDir))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create dataset registry: %w", err)
	}
	store := search.NewStore(registry)

	cache := pages.NewCache(
		pages.NewHTTPFetcher(&http.Client{Timeout: cfg.FetchTimeout}),
		pages.NewMarkdownConverter(pages.ConverterOptions{
			Selector:           cfg.ContentSelector,
			FallbackToDocument: cfg.FallbackToDocument,
		}),
	)

	docs, err := tools.NewDocSearch(
		search.NewRanker(store),
		search.NewResolver(cfg.BaseURL),
		cache,
		cfg.Versions,
		cfg.DefaultVersion,
	)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	log.Printf("✓ Documentation search ready (versions: %v, default: %s, data: %s)", cfg.Versions, cfg.DefaultVersion, cfg.DataDir)
	return store, docs, nil
}

// createMCPServer initializes the MCP server with tools and resources
func createMCPServer(docs *tools.DocSearch) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		nil, // Default options
	)

	tools.RegisterDocSearchTools(server, docs)
	tools.RegisterDocResources(server, docs)

	log.Printf("Server initialized: %s v%s (2 tools, 1 resource)", serverName, version)
	return server
}
