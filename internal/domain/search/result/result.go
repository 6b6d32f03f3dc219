// Package result defines search hits and the response envelope.
package result

// Result is a single search hit. Identity for deduplication is ContentID;
// the relevance score stays within [0, 1] after every transformation.
type Result struct {
	contentID      string
	title          string
	contentSnippet string
	sourceURL      string
	relevanceScore float64
	metadata       map[string]any
	technology     string
	qualityScore   *float64
	workspaceSlug  string
	chunkIndex     *int
}

// New creates a search result. The relevance score is clamped to [0, 1].
func New(
	contentID, title, snippet, sourceURL string,
	relevance float64,
	metadata map[string]any,
) Result {
	return Result{
		contentID:      contentID,
		title:          title,
		contentSnippet: snippet,
		sourceURL:      sourceURL,
		relevanceScore: clamp(relevance),
		metadata:       metadata,
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WithScore returns a copy with the relevance score rewritten (clamped).
func (r Result) WithScore(score float64) Result {
	r.relevanceScore = clamp(score)
	return r
}

// WithTechnology returns a copy with the technology tag set.
func (r Result) WithTechnology(t string) Result {
	r.technology = t
	return r
}

// WithQuality returns a copy with the quality score set (clamped).
func (r Result) WithQuality(q float64) Result {
	c := clamp(q)
	r.qualityScore = &c
	return r
}

// WithWorkspace returns a copy with the owning workspace slug set.
func (r Result) WithWorkspace(slug string) Result {
	r.workspaceSlug = slug
	return r
}

// WithChunkIndex returns a copy with the chunk index set.
func (r Result) WithChunkIndex(i int) Result {
	r.chunkIndex = &i
	return r
}

// ContentID returns the deduplication identity key.
func (r *Result) ContentID() string { return r.contentID }

// Title returns the document title.
func (r *Result) Title() string { return r.title }

// ContentSnippet returns the truncated content excerpt.
func (r *Result) ContentSnippet() string { return r.contentSnippet }

// SourceURL returns the origin URL.
func (r *Result) SourceURL() string { return r.sourceURL }

// RelevanceScore returns the relevance score in [0, 1].
func (r *Result) RelevanceScore() float64 { return r.relevanceScore }

// Metadata returns the open metadata map.
func (r *Result) Metadata() map[string]any { return r.metadata }

// Technology returns the technology tag, if any.
func (r *Result) Technology() string { return r.technology }

// QualityScore returns the optional quality score.
func (r *Result) QualityScore() *float64 { return r.qualityScore }

// WorkspaceSlug returns the owning workspace slug, if any.
func (r *Result) WorkspaceSlug() string { return r.workspaceSlug }

// ChunkIndex returns the optional chunk index.
func (r *Result) ChunkIndex() *int { return r.chunkIndex }
