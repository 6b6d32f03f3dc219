// Package domain holds the shared error taxonomy for the search workflow.
package domain

import "errors"

// Kind sentinels. Every failure raised by the search workflow wraps exactly
// one of these, so callers match with errors.Is regardless of wrapping depth.
var (
	// ErrVectorSearch signals a workspace search failure or total fan-out failure.
	ErrVectorSearch = errors.New("vector search failed")
	// ErrMetadataSearch signals a metadata-store query failure.
	ErrMetadataSearch = errors.New("metadata search failed")
	// ErrResultRanking signals a batch ranking failure.
	ErrResultRanking = errors.New("result ranking failed")
	// ErrSearchCache signals a cache read or write failure.
	ErrSearchCache = errors.New("search cache failed")
	// ErrWorkspaceSelection signals a workspace discovery or scoring failure.
	ErrWorkspaceSelection = errors.New("workspace selection failed")
	// ErrSearchTimeout signals that a bounded operation exceeded its deadline.
	ErrSearchTimeout = errors.New("search timed out")
	// ErrLLMEvaluation signals a result quality evaluation failure.
	ErrLLMEvaluation = errors.New("llm evaluation failed")
	// ErrEnrichmentTrigger signals a background enrichment dispatch failure.
	ErrEnrichmentTrigger = errors.New("enrichment trigger failed")
)

// Error is the base orchestration error. It carries a structured context map
// for diagnostics and a recoverable flag the orchestrator consults when
// deciding whether to degrade or fail the whole search.
type Error struct {
	Kind        error
	Message     string
	Context     map[string]any
	Recoverable bool
	Cause       error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// NewVectorSearch builds a recoverable vector search error.
func NewVectorSearch(msg string, cause error, ctx map[string]any) *Error {
	return &Error{Kind: ErrVectorSearch, Message: msg, Context: ctx, Recoverable: true, Cause: cause}
}

// NewMetadataSearch builds a recoverable metadata search error.
func NewMetadataSearch(msg string, cause error, ctx map[string]any) *Error {
	return &Error{Kind: ErrMetadataSearch, Message: msg, Context: ctx, Recoverable: true, Cause: cause}
}

// NewResultRanking builds a recoverable ranking error.
func NewResultRanking(msg string, cause error, ctx map[string]any) *Error {
	return &Error{Kind: ErrResultRanking, Message: msg, Context: ctx, Recoverable: true, Cause: cause}
}

// NewSearchCache builds a recoverable cache error.
func NewSearchCache(msg string, cause error, ctx map[string]any) *Error {
	return &Error{Kind: ErrSearchCache, Message: msg, Context: ctx, Recoverable: true, Cause: cause}
}

// NewWorkspaceSelection builds a workspace selection error. Recoverable in
// the taxonomy, but the orchestrator still treats it as terminal: without
// workspaces the search cannot proceed meaningfully.
func NewWorkspaceSelection(msg string, cause error, ctx map[string]any) *Error {
	return &Error{Kind: ErrWorkspaceSelection, Message: msg, Context: ctx, Recoverable: true, Cause: cause}
}

// NewSearchTimeout builds a non-recoverable timeout error.
func NewSearchTimeout(msg string, cause error, ctx map[string]any) *Error {
	return &Error{Kind: ErrSearchTimeout, Message: msg, Context: ctx, Recoverable: false, Cause: cause}
}

// NewLLMEvaluation builds a recoverable evaluation error.
func NewLLMEvaluation(msg string, cause error, ctx map[string]any) *Error {
	return &Error{Kind: ErrLLMEvaluation, Message: msg, Context: ctx, Recoverable: true, Cause: cause}
}

// NewEnrichmentTrigger builds a recoverable enrichment dispatch error.
func NewEnrichmentTrigger(msg string, cause error, ctx map[string]any) *Error {
	return &Error{Kind: ErrEnrichmentTrigger, Message: msg, Context: ctx, Recoverable: true, Cause: cause}
}

// IsRecoverable reports whether err is an orchestration error marked
// recoverable. Unknown errors are treated as non-recoverable.
func IsRecoverable(err error) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Recoverable
	}
	return false
}
