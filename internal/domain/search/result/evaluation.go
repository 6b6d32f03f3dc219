package result

// Evaluation is the outcome of LLM quality assessment over one result set.
// Produced once per search when evaluation is enabled; never persisted
// beyond the enrichment decision. All scores are in [0, 1].
type Evaluation struct {
	OverallQuality      float64
	RelevanceAssessment float64
	CompletenessScore   float64
	NeedsEnrichment     bool
	EnrichmentTopics    []string
	ConfidenceLevel     float64
	Reasoning           string
}
