package indexing

import (
	"math"
	"regexp"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	bleveregexp "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/mapping"
)

const (
	wordTokenizer = "doc_words"
	nameAnalyzer  = "doc_name"

	// wordPattern splits on whitespace and punctuation; "Node3D" stays one token
	wordPattern = `[\p{L}\p{N}]+`
)

var wordRegex = regexp.MustCompile(wordPattern)

// Tokenize splits a query the same way the name analyzer splits indexed names
func Tokenize(text string) []string {
	return wordRegex.FindAllString(strings.ToLower(text), -1)
}

// Fuzziness returns the edit distance tolerated for a token
func Fuzziness(token string) int {
	n := int(math.Round(float64(len([]rune(token))) * FuzzyFactor))
	if n > MaxFuzziness {
		return MaxFuzziness
	}
	return n
}

// NewIndexMapping builds the mapping for SearchIndexItem documents:
// name is analyzed and searchable, category and url are stored for ranking and output
func NewIndexMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()

	if err := indexMapping.AddCustomTokenizer(wordTokenizer, map[string]interface{}{
		"type":   bleveregexp.Name,
		"regexp": wordPattern,
	}); err != nil {
		return nil, err
	}

	if err := indexMapping.AddCustomAnalyzer(nameAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     wordTokenizer,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		return nil, err
	}

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = nameAnalyzer
	nameField.Store = true
	nameField.IncludeTermVectors = false

	categoryField := bleve.NewTextFieldMapping()
	categoryField.Analyzer = keyword.Name
	categoryField.Store = true

	urlField := bleve.NewTextFieldMapping()
	urlField.Index = false
	urlField.Store = true
	urlField.IncludeInAll = false

	item := bleve.NewDocumentStaticMapping()
	item.AddFieldMappingsAt(FieldName, nameField)
	item.AddFieldMappingsAt(FieldCategory, categoryField)
	item.AddFieldMappingsAt(FieldURL, urlField)

	indexMapping.DefaultMapping = item
	indexMapping.DefaultAnalyzer = nameAnalyzer

	return indexMapping, nil
}
