package indexing

// Index field names
const (
	FieldName     = "name"
	FieldCategory = "category"
	FieldURL      = "url"
)

// Ranking constants
const (
	// FuzzyFactor is the edit distance allowed per character of a query token
	FuzzyFactor = 0.2

	// MaxFuzziness is the largest edit distance bleve accepts for a fuzzy query
	MaxFuzziness = 2

	// FuzzyWeight scales fuzzy matches relative to exact token matches
	FuzzyWeight = 0.45

	// ClassesCategory entries are boosted by ClassesBoost
	ClassesCategory = "classes"
	ClassesBoost    = 2.0
)

// DatasetFile is the per-version dataset path relative to the data root
const DatasetFile = "indexes/%s/searchindex.json"
