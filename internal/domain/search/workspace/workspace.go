// Package workspace defines the candidate search backend descriptor.
package workspace

import "time"

// Info describes one candidate backend for a single search. The relevance
// score is query-specific and recomputed per search; Info values are
// ephemeral and never persisted.
type Info struct {
	Slug           string
	Technology     string
	RelevanceScore float64
	LastUpdated    time.Time
	DocumentCount  *int
}
