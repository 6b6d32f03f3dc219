// Package evaluate grades search result quality through an LLM.
package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/docdex/internal/domain"
	"github.com/kailas-cloud/docdex/internal/domain/search/result"
)

// maxPromptResults caps how many hits are embedded in the prompt.
const maxPromptResults = 5

// Service builds the evaluation prompt, delegates to the LLM, and parses the
// structured verdict.
type Service struct {
	llm LLMClient
}

// New creates an evaluation service.
func New(llm LLMClient) *Service {
	return &Service{llm: llm}
}

// llmVerdict mirrors the JSON document the model is asked to return.
type llmVerdict struct {
	OverallQuality      float64  `json:"overall_quality"`
	RelevanceAssessment float64  `json:"relevance_assessment"`
	CompletenessScore   float64  `json:"completeness_score"`
	NeedsEnrichment     bool     `json:"needs_enrichment"`
	EnrichmentTopics    []string `json:"enrichment_topics"`
	ConfidenceLevel     float64  `json:"confidence_level"`
	Reasoning           string   `json:"reasoning"`
}

// Evaluate asks the LLM to grade how well the results answer the query. Any
// failure surfaces as a recoverable evaluation error so the caller can return
// results without a verdict.
func (s *Service) Evaluate(
	ctx context.Context, queryText, technologyHint string, results []result.Result,
) (result.Evaluation, error) {
	prompt := buildPrompt(queryText, technologyHint, results)

	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return result.Evaluation{}, domain.NewLLMEvaluation("llm completion failed", err, map[string]any{
			"result_count": len(results),
			"model":        s.llm.Model(),
		})
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		return result.Evaluation{}, domain.NewLLMEvaluation("malformed llm response", err, map[string]any{
			"result_count": len(results),
			"model":        s.llm.Model(),
		})
	}

	return result.Evaluation{
		OverallQuality:      clamp(verdict.OverallQuality),
		RelevanceAssessment: clamp(verdict.RelevanceAssessment),
		CompletenessScore:   clamp(verdict.CompletenessScore),
		NeedsEnrichment:     verdict.NeedsEnrichment,
		EnrichmentTopics:    verdict.EnrichmentTopics,
		ConfidenceLevel:     clamp(verdict.ConfidenceLevel),
		Reasoning:           verdict.Reasoning,
	}, nil
}

func buildPrompt(queryText, technologyHint string, results []result.Result) string {
	var b strings.Builder

	b.WriteString("Assess how well these documentation search results answer the query.\n\n")
	fmt.Fprintf(&b, "Query: %s\n", queryText)
	if technologyHint != "" {
		fmt.Fprintf(&b, "Technology: %s\n", technologyHint)
	}
	b.WriteString("\nResults:\n")

	shown := results
	if len(shown) > maxPromptResults {
		shown = shown[:maxPromptResults]
	}
	for i, r := range shown {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.Title(), r.ContentSnippet())
	}

	b.WriteString(`
Respond with a single JSON object:
{"overall_quality": 0.0-1.0, "relevance_assessment": 0.0-1.0, "completeness_score": 0.0-1.0, "needs_enrichment": bool, "enrichment_topics": [strings], "confidence_level": 0.0-1.0, "reasoning": "short explanation"}`)

	return b.String()
}

// parseVerdict extracts the JSON object from the completion, tolerating
// surrounding prose or markdown fences.
func parseVerdict(raw string) (llmVerdict, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return llmVerdict{}, fmt.Errorf("no JSON object in response")
	}

	var v llmVerdict
	if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err != nil {
		return llmVerdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	return v, nil
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
