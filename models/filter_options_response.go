package models

// FilterOptionsResponse matches the data API's /filter-options payload.
// Dates use the store's own date format and go through the date parser.
type FilterOptionsResponse struct {
	Dates      []string            `json:"dates"`
	Areas      []string            `json:"areas,omitempty"`
	Categories map[string][]string `json:"categories,omitempty"`
}
