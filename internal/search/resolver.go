package search

import "strings"

// DefaultBaseURL is the documentation host every version lives under
const DefaultBaseURL = "https://docs.godotengine.org/en"

// Resolver turns relative page paths into absolute, version-qualified URLs
type Resolver struct {
	BaseURL string
}

// NewResolver creates a resolver; an empty baseURL selects DefaultBaseURL
func NewResolver(baseURL string) Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Resolver{BaseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve returns <base>/<version><path>
func (r Resolver) Resolve(version, path string) string {
	return r.BaseURL + "/" + version + path
}

// ResolveAll resolves every path in order
func (r Resolver) ResolveAll(version string, paths []string) []string {
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, r.Resolve(version, p))
	}
	return urls
}
