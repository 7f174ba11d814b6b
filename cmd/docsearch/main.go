package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/james2doyle/godot-docs-mcp/internal/config"
	"github.com/james2doyle/godot-docs-mcp/internal/indexing"
	"github.com/james2doyle/godot-docs-mcp/internal/search"
)

var (
	errUsage     = errors.New("usage")
	errNoMatches = errors.New("no matches")
)

type options struct {
	dataDir string
	version string
	term    string
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Usage: %s <data-dir> <version> <term>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s data stable node3d\n", os.Args[0])
		os.Exit(1)
	}

	log.SetOutput(os.Stderr)
	log.Printf("Godot Documentation Search")
	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("Dataset: %s", fmt.Sprintf(indexing.DatasetFile, opts.version))

	baseURL := config.DefaultBaseURL
	if v := os.Getenv(config.EnvBaseURL); v != "" {
		baseURL = v
	}

	err = run(context.Background(), opts, search.NewDirDataProvider(opts.dataDir), baseURL, os.Stdout)
	if errors.Is(err, errNoMatches) {
		log.Printf("Failed to find any documentation for \"%s\"", opts.term)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}
}

func parseArgs(args []string) (options, error) {
	if len(args) != 3 || args[0] == "" || args[1] == "" {
		return options{}, errUsage
	}
	return options{dataDir: args[0], version: args[1], term: args[2]}, nil
}

// run builds the version's index from provider and writes one
// "<score>  <category>  <url>" line per match to out, best first
func run(ctx context.Context, opts options, provider search.DataProvider, baseURL string, out io.Writer) error {
	registry, err := search.NewProviderRegistry([]string{opts.version}, provider)
	if err != nil {
		return fmt.Errorf("failed to create dataset registry: %w", err)
	}
	store := search.NewStore(registry)
	defer store.Close()

	start := time.Now()
	index, err := store.GetOrBuild(ctx, opts.version)
	if err != nil {
		return err
	}
	count, err := index.DocCount()
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	log.Printf("✓ Indexed %d entries in %v", count, time.Since(start).Round(time.Millisecond))

	matches, err := search.NewRanker(store).Matches(ctx, opts.version, opts.term)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return errNoMatches
	}

	resolver := search.NewResolver(baseURL)
	log.Printf("✓ %d matches for %q", len(matches), opts.term)
	for _, m := range matches {
		if _, err := fmt.Fprintf(out, "%6.3f  %-10s  %s\n", m.Score, m.Category, resolver.Resolve(opts.version, m.URL)); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
	}
	return nil
}
