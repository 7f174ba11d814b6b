package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/james2doyle/godot-docs-mcp/internal/pages"
	"github.com/james2doyle/godot-docs-mcp/internal/search"
	"github.com/joho/godotenv"
)

// Environment variables read by Load
const (
	EnvDataDir            = "GODOT_DOCS_DATA_DIR"
	EnvBaseURL            = "GODOT_DOCS_BASE_URL"
	EnvVersions           = "GODOT_DOCS_VERSIONS"
	EnvDefaultVersion     = "GODOT_DOCS_DEFAULT_VERSION"
	EnvContentSelector    = "GODOT_DOCS_CONTENT_SELECTOR"
	EnvFallbackToDocument = "GODOT_DOCS_FALLBACK_TO_DOCUMENT"
	EnvFetchTimeout       = "GODOT_DOCS_FETCH_TIMEOUT"
	EnvHTTPAddr           = "GODOT_DOCS_HTTP_ADDR"
	EnvRedirectURL        = "GODOT_DOCS_REDIRECT_URL"
	EnvRateLimit          = "GODOT_DOCS_RATE_LIMIT"
	EnvRateBurst          = "GODOT_DOCS_RATE_BURST"
)

// Defaults
const (
	DefaultBaseURL         = search.DefaultBaseURL
	DefaultVersion         = "stable"
	DefaultContentSelector = pages.DefaultContentSelector
	DefaultFetchTimeout    = pages.DefaultFetchTimeout
	DefaultRedirectURL     = "https://github.com/james2doyle/godot-docs-mcp"
	DefaultRateLimit       = 1.0 // requests per second per client
	DefaultRateBurst       = 10

	userDataDirName = ".godot-docs-mcp"
)

// DefaultVersions is the supported version set when GODOT_DOCS_VERSIONS is unset
var DefaultVersions = []string{"stable", "latest", "4.6", "4.5", "4.4", "4.3"}

// Config holds the server settings
type Config struct {
	DataDir            string        // root holding indexes/<version>/searchindex.json
	BaseURL            string        // documentation host prefix
	Versions           []string      // closed set of supported versions
	DefaultVersion     string        // used when a tool call omits the version
	ContentSelector    string        // CSS selector of the page content region
	FallbackToDocument bool          // convert the whole body when the selector misses
	FetchTimeout       time.Duration // HTTP client timeout for page fetches

	HTTPAddr    string  // empty means stdio transport
	RedirectURL string  // target of non-/mcp HTTP requests
	RateLimit   float64 // /mcp requests per second per client
	RateBurst   int
}

// Load reads an optional .env file and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg := &Config{
		DataDir:         os.Getenv(EnvDataDir),
		BaseURL:         envOrDefault(EnvBaseURL, DefaultBaseURL),
		Versions:        DefaultVersions,
		DefaultVersion:  envOrDefault(EnvDefaultVersion, DefaultVersion),
		ContentSelector: envOrDefault(EnvContentSelector, DefaultContentSelector),
		FetchTimeout:    DefaultFetchTimeout,
		HTTPAddr:        os.Getenv(EnvHTTPAddr),
		RedirectURL:     envOrDefault(EnvRedirectURL, DefaultRedirectURL),
		RateLimit:       DefaultRateLimit,
		RateBurst:       DefaultRateBurst,
	}

	if v := os.Getenv(EnvVersions); v != "" {
		cfg.Versions = splitList(v)
	}

	var err error
	if v := os.Getenv(EnvFallbackToDocument); v != "" {
		if cfg.FallbackToDocument, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvFallbackToDocument, err)
		}
	}
	if v := os.Getenv(EnvFetchTimeout); v != "" {
		if cfg.FetchTimeout, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvFetchTimeout, err)
		}
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		if cfg.RateLimit, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvRateLimit, err)
		}
	}
	if v := os.Getenv(EnvRateBurst); v != "" {
		if cfg.RateBurst, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvRateBurst, err)
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = resolveDataDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the version set and numeric limits
func (c *Config) Validate() error {
	if len(c.Versions) == 0 {
		return fmt.Errorf("no documentation versions configured")
	}

	seen := make(map[string]bool, len(c.Versions))
	for _, v := range c.Versions {
		if seen[v] {
			return fmt.Errorf("duplicate documentation version %q", v)
		}
		seen[v] = true
	}
	if !seen[c.DefaultVersion] {
		return fmt.Errorf("default version %q is not one of %v", c.DefaultVersion, c.Versions)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %v", c.FetchTimeout)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("rate limit and burst must be positive, got %v/%d", c.RateLimit, c.RateBurst)
	}
	return nil
}

// resolveDataDir picks the dataset root when none is configured
func resolveDataDir() string {
	// Strategy 1: user home directory (standalone installation)
	homeDir, err := os.UserHomeDir()
	if err == nil {
		userDataDir := filepath.Join(homeDir, userDataDirName)
		if info, err := os.Stat(userDataDir); err == nil && info.IsDir() {
			log.Printf("✓ Data directory: %s (user home)", userDataDir)
			return userDataDir
		}
	} else {
		log.Printf("Warning: Could not determine user home directory: %v", err)
	}

	// Strategy 2: relative to executable
	// Binary at: <root>/bin/godot-docs-mcp
	// Data at:   <root>/data/
	if execPath, err := os.Executable(); err == nil {
		relativeDataDir := filepath.Join(filepath.Dir(execPath), "..", "data")
		if info, err := os.Stat(relativeDataDir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(relativeDataDir)
			log.Printf("✓ Data directory: %s (relative to binary)", abs)
			return abs
		}
	}

	// Strategy 3: current working directory
	dataDir := filepath.Join(".", "data")
	log.Printf("⚠️  Data directory (fallback): %s", dataDir)
	return dataDir
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
