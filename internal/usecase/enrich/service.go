// Package enrich fires background content-enrichment requests.
package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/logger"
	"github.com/kailas-cloud/docdex/internal/metrics"
)

const defaultDispatchTimeout = 30 * time.Second

// Service triggers enrichment without blocking the search path: the decision
// is synchronous, the dispatch itself runs detached.
type Service struct {
	dispatcher      Dispatcher
	dispatchTimeout time.Duration
}

// New creates an enrichment service. dispatcher may be nil when no
// enrichment backend is configured.
func New(dispatcher Dispatcher, dispatchTimeout time.Duration) *Service {
	if dispatchTimeout <= 0 {
		dispatchTimeout = defaultDispatchTimeout
	}
	return &Service{dispatcher: dispatcher, dispatchTimeout: dispatchTimeout}
}

// Trigger kicks off enrichment for the given topics. It returns whether a
// dispatch was started; the dispatch outcome itself is only logged. The
// detached call survives cancellation of the originating request.
func (s *Service) Trigger(ctx context.Context, topics []string, reason string) (bool, error) {
	if s.dispatcher == nil {
		return false, domain.NewEnrichmentTrigger("enrichment service not configured", nil, map[string]any{
			"topics": topics,
			"reason": reason,
		})
	}
	if len(topics) == 0 {
		return false, nil
	}

	log := logger.FromContext(ctx)

	go func(ctx context.Context) {
		dctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
		defer cancel()

		if err := s.dispatcher.Dispatch(dctx, topics, reason); err != nil {
			metrics.EnrichmentsTotal.WithLabelValues("error").Inc()
			log.Warn("enrichment dispatch failed",
				zap.Strings("topics", topics),
				zap.String("reason", reason),
				zap.Error(err),
			)
			return
		}
		metrics.EnrichmentsTotal.WithLabelValues("ok").Inc()
	}(context.WithoutCancel(ctx))

	return true, nil
}
