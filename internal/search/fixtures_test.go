package search_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/james2doyle/godot-docs-mcp/internal/indexing"
	"github.com/james2doyle/godot-docs-mcp/internal/search"
	"github.com/stretchr/testify/require"
)

var fixtureVersions = []string{"stable", "4.4"}

var collisionItems = []indexing.SearchIndexItem{
	{ID: 4, Name: "Collision", Category: "tutorials", URL: "/tutorials/3d/particles/collision.html"},
	{ID: 5, Name: "Collision shapes (2D)", Category: "tutorials", URL: "/tutorials/physics/collision_shapes_2d.html"},
	{ID: 6, Name: "Collision shapes (3D)", Category: "tutorials", URL: "/tutorials/physics/collision_shapes_3d.html"},
}

var stableItems = append([]indexing.SearchIndexItem{
	{ID: 1, Name: "Node3D", Category: "classes", URL: "/classes/class_node3d.html"},
	{ID: 2, Name: "Node2D", Category: "classes", URL: "/classes/class_node2d.html"},
	{ID: 3, Name: "Introduction to 3D", Category: "tutorials", URL: "/tutorials/3d/introduction_to_3d.html"},
	{ID: 10, Name: "Sprite", Category: "tutorials", URL: "/tutorials/2d/sprite.html"},
	{ID: 11, Name: "Sprite", Category: "classes", URL: "/classes/class_sprite.html"},
}, collisionItems...)

func datasetJSON(t *testing.T, items []indexing.SearchIndexItem) []byte {
	t.Helper()
	data, err := json.Marshal(items)
	require.NoError(t, err)
	return data
}

// newFixtureProvider serves the stable and 4.4 datasets
func newFixtureProvider(t *testing.T) *search.MockDataProvider {
	t.Helper()
	provider := search.NewMockDataProvider()
	provider.AddFile(fmt.Sprintf(indexing.DatasetFile, "stable"), datasetJSON(t, stableItems))
	provider.AddFile(fmt.Sprintf(indexing.DatasetFile, "4.4"), datasetJSON(t, collisionItems))
	return provider
}

func newFixtureStore(t *testing.T, provider search.DataProvider) *search.Store {
	t.Helper()
	registry, err := search.NewProviderRegistry(fixtureVersions, provider)
	require.NoError(t, err)

	store := search.NewStore(registry)
	t.Cleanup(func() { store.Close() })
	return store
}
