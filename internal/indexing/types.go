package indexing

// SearchIndexItem is one entry of a version's documentation dataset
type SearchIndexItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`     // Searchable title, e.g. "Node3D"
	Category string `json:"category"` // "classes", "tutorials", ...
	URL      string `json:"url"`      // Path relative to the version root, e.g. "/classes/class_node3d.html"
}

// Document returns the field map stored in the search index
func (i SearchIndexItem) Document() map[string]interface{} {
	return map[string]interface{}{
		FieldName:     i.Name,
		FieldCategory: i.Category,
		FieldURL:      i.URL,
	}
}
