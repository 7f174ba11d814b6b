package search

import (
	"context"
	"fmt"

	"github.com/james2doyle/godot-docs-mcp/internal/indexing"
)

// Loader returns the dataset of one documentation version
type Loader func(ctx context.Context) ([]indexing.SearchIndexItem, error)

// Registry maps every supported version to its dataset loader.
// The version set is closed once the registry is built.
type Registry struct {
	versions []string
	loaders  map[string]Loader
}

// NewRegistry validates that versions is a non-empty set without duplicates
// and that each version has exactly one loader
func NewRegistry(versions []string, loaders map[string]Loader) (*Registry, error) {
	if len(versions) == 0 {
		return nil, fmt.Errorf("no documentation versions configured")
	}

	r := &Registry{
		versions: make([]string, 0, len(versions)),
		loaders:  make(map[string]Loader, len(versions)),
	}

	for _, v := range versions {
		if v == "" {
			return nil, fmt.Errorf("empty documentation version")
		}
		if _, dup := r.loaders[v]; dup {
			return nil, fmt.Errorf("duplicate documentation version %q", v)
		}
		loader, ok := loaders[v]
		if !ok || loader == nil {
			return nil, fmt.Errorf("no dataset loader for version %q", v)
		}
		r.versions = append(r.versions, v)
		r.loaders[v] = loader
	}

	for v := range loaders {
		if _, ok := r.loaders[v]; !ok {
			return nil, fmt.Errorf("dataset loader for unknown version %q", v)
		}
	}

	return r, nil
}

// NewProviderRegistry creates a registry whose loaders read
// indexes/<version>/searchindex.json from provider
func NewProviderRegistry(versions []string, provider DataProvider) (*Registry, error) {
	loaders := make(map[string]Loader, len(versions))
	for _, v := range versions {
		loaders[v] = providerLoader(provider, v)
	}
	return NewRegistry(versions, loaders)
}

func providerLoader(provider DataProvider, version string) Loader {
	return func(ctx context.Context) ([]indexing.SearchIndexItem, error) {
		name := fmt.Sprintf(indexing.DatasetFile, version)
		data, err := provider.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return indexing.ParseDataset(data)
	}
}

// Versions returns the supported versions in configuration order
func (r *Registry) Versions() []string {
	return append([]string(nil), r.versions...)
}

// Supports reports whether version is in the closed set
func (r *Registry) Supports(version string) bool {
	_, ok := r.loaders[version]
	return ok
}

// Load runs the dataset loader for version
func (r *Registry) Load(ctx context.Context, version string) ([]indexing.SearchIndexItem, error) {
	loader, ok := r.loaders[version]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	return loader(ctx)
}
