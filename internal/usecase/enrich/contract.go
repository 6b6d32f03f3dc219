package enrich

import "context"

// Dispatcher submits an enrichment request to the content pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, topics []string, reason string) error
}
