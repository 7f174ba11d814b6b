package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/james2doyle/godot-docs-mcp/internal/indexing"
)

// IndexSource provides the index of a documentation version
type IndexSource interface {
	GetOrBuild(ctx context.Context, version string) (Index, error)
}

// Match is one ranked hit
type Match struct {
	URL      string // relative page path
	Category string
	Score    float64 // text score multiplied by the category boost
}

// Ranker runs fuzzy, category-boosted queries against a version's index
type Ranker struct {
	indexes IndexSource
}

// NewRanker creates a ranker reading indexes from source
func NewRanker(source IndexSource) *Ranker {
	return &Ranker{indexes: source}
}

// Query returns the relative URLs matching term, best match first.
// No match is an empty result, not an error.
func (r *Ranker) Query(ctx context.Context, version, term string) ([]string, error) {
	matches, err := r.Matches(ctx, version, term)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m.URL)
	}
	return urls, nil
}

// Matches is Query with scores and categories
func (r *Ranker) Matches(ctx context.Context, version, term string) ([]Match, error) {
	index, err := r.indexes.GetOrBuild(ctx, version)
	if err != nil {
		return nil, err
	}

	q := buildQuery(term)
	if q == nil {
		return []Match{}, nil
	}

	count, err := index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	if count == 0 {
		return []Match{}, nil
	}

	req := bleve.NewSearchRequestOptions(q, int(count), 0, false)
	req.Fields = []string{indexing.FieldURL, indexing.FieldCategory}

	result, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	matches := make([]Match, 0, len(result.Hits))
	for _, hit := range result.Hits {
		m := Match{Score: hit.Score}
		if url, ok := hit.Fields[indexing.FieldURL].(string); ok {
			m.URL = url
		}
		if category, ok := hit.Fields[indexing.FieldCategory].(string); ok {
			m.Category = category
		}
		m.Score *= categoryBoost(m.Category)
		matches = append(matches, m)
	}

	// Stable keeps the engine's order for equal scores
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}

func categoryBoost(category string) float64 {
	if category == indexing.ClassesCategory {
		return indexing.ClassesBoost
	}
	return 1
}

// buildQuery ORs, for every token, an exact term match with a weaker fuzzy match
func buildQuery(term string) query.Query {
	tokens := indexing.Tokenize(term)
	if len(tokens) == 0 {
		return nil
	}

	clauses := make([]query.Query, 0, len(tokens))
	for _, token := range tokens {
		exact := bleve.NewTermQuery(token)
		exact.SetField(indexing.FieldName)

		fuzziness := indexing.Fuzziness(token)
		if fuzziness == 0 {
			clauses = append(clauses, exact)
			continue
		}

		fuzzy := bleve.NewFuzzyQuery(token)
		fuzzy.SetField(indexing.FieldName)
		fuzzy.SetFuzziness(fuzziness)
		fuzzy.SetBoost(indexing.FuzzyWeight)

		clauses = append(clauses, bleve.NewDisjunctionQuery(exact, fuzzy))
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return bleve.NewDisjunctionQuery(clauses...)
}
