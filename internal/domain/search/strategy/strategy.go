// Package strategy defines the search strategy enum.
package strategy

// Strategy is the search execution strategy.
type Strategy string

// Strategy constants.
const (
	// Hybrid combines vector similarity with metadata signals.
	Hybrid   Strategy = "hybrid"
	Vector   Strategy = "vector"
	Metadata Strategy = "metadata"
	// Faceted narrows results along structured filter facets.
	Faceted Strategy = "faceted"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == Hybrid || s == Vector || s == Metadata || s == Faceted
}

// Multiplier returns the relevance adjustment applied after weighted scoring.
func (s Strategy) Multiplier() float64 {
	switch s {
	case Hybrid:
		return 1.05
	case Faceted:
		return 1.02
	case Metadata:
		return 0.95
	default:
		return 1.0
	}
}
