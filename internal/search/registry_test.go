package search_test

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/james2doyle/godot-docs-mcp/internal/indexing"
	"github.com/james2doyle/godot-docs-mcp/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopLoader(ctx context.Context) ([]indexing.SearchIndexItem, error) {
	return nil, nil
}

func TestNewRegistry_Validation(t *testing.T) {
	tests := []struct {
		name     string
		versions []string
		loaders  map[string]search.Loader
		wantErr  bool
	}{
		{
			name:     "valid closed set",
			versions: []string{"stable", "4.4"},
			loaders:  map[string]search.Loader{"stable": noopLoader, "4.4": noopLoader},
		},
		{
			name:     "empty set",
			versions: nil,
			loaders:  map[string]search.Loader{},
			wantErr:  true,
		},
		{
			name:     "duplicate version",
			versions: []string{"stable", "stable"},
			loaders:  map[string]search.Loader{"stable": noopLoader},
			wantErr:  true,
		},
		{
			name:     "missing loader",
			versions: []string{"stable", "4.3"},
			loaders:  map[string]search.Loader{"stable": noopLoader},
			wantErr:  true,
		},
		{
			name:     "loader outside the set",
			versions: []string{"stable"},
			loaders:  map[string]search.Loader{"stable": noopLoader, "3.6": noopLoader},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := search.NewRegistry(tt.versions, tt.loaders)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.versions, registry.Versions())
		})
	}
}

func TestRegistry_LoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"indexes/stable/searchindex.json": &fstest.MapFile{
			Data: []byte(`[{"id": 1, "name": "Node3D", "category": "classes", "url": "/classes/class_node3d.html"}]`),
		},
	}

	registry, err := search.NewProviderRegistry([]string{"stable", "latest"}, search.NewFSDataProvider(fsys))
	require.NoError(t, err)

	items, err := registry.Load(context.Background(), "stable")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Node3D", items[0].Name)

	_, err = registry.Load(context.Background(), "latest")
	assert.True(t, errors.Is(err, fs.ErrNotExist), "missing dataset should surface fs.ErrNotExist, got %v", err)

	_, err = registry.Load(context.Background(), "2.1")
	assert.ErrorIs(t, err, search.ErrUnsupportedVersion)

	assert.True(t, registry.Supports("latest"))
	assert.False(t, registry.Supports("2.1"))
}
