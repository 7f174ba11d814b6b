package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/james2doyle/godot-docs-mcp/internal/indexing"
)

// Index is the searchable form of one version's dataset. The Store owns it;
// the Ranker only reads from it.
type Index interface {
	Search(req *bleve.SearchRequest) (*bleve.SearchResult, error)

	// DocCount is the number of dataset items, used as the result size so a
	// query returns every hit
	DocCount() (uint64, error)

	Close() error
}

type memIndex struct {
	bleve.Index
}

// WrapIndex exposes an existing bleve index as an Index
func WrapIndex(index bleve.Index) Index {
	return memIndex{Index: index}
}

const batchSize = 500

// BuildIndex creates an in-memory index over items
func BuildIndex(items []indexing.SearchIndexItem) (Index, error) {
	indexMapping, err := indexing.NewIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("failed to build index mapping: %w", err)
	}

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := index.NewBatch()
	for i, item := range items {
		if err := batch.Index(fmt.Sprintf("%d", item.ID), item.Document()); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to add item %d to batch: %w", item.ID, err)
		}

		if (i+1)%batchSize == 0 {
			if err := index.Batch(batch); err != nil {
				index.Close()
				return nil, fmt.Errorf("failed to index batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index final batch: %w", err)
		}
	}

	return WrapIndex(index), nil
}
