package indexing

import (
	"encoding/json"
	"fmt"
)

// ParseDataset decodes a JSON array of SearchIndexItem.
// Items keep dataset order; a repeated ID is an error because the index
// would otherwise overwrite the earlier entry.
func ParseDataset(data []byte) ([]SearchIndexItem, error) {
	var items []SearchIndexItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %d (%q)", item.ID, item.Name)
		}
		seen[item.ID] = struct{}{}
	}

	return items, nil
}
