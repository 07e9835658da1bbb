package infer

// engine.go: provider-agnostic orchestration of one inference run.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ripp/internal/evidence"
)

// Engine wraps a Provider with invariant enforcement and the configured
// minimum-confidence floor. Candidates dropped by the floor are not
// retained anywhere.
type Engine struct {
	provider      Provider
	minConfidence float64
	log           *slog.Logger
}

// NewEngine builds an engine around one provider variant.
func NewEngine(p Provider, minConfidence float64) *Engine {
	return &Engine{
		provider:      p,
		minConfidence: minConfidence,
		log:           slog.Default().With(slog.String("component", "infer")),
	}
}

// Infer runs the provider, validates every candidate, applies the
// confidence floor, and assigns stable sequential IDs for downstream
// confirmation artifacts.
func (e *Engine) Infer(ctx context.Context, pack *evidence.Pack, opts Options) (*CandidateSet, error) {
	if !e.provider.IsConfigured() {
		return nil, fmt.Errorf("provider %q is not configured", e.provider.Name())
	}

	cands, err := e.provider.InferIntent(ctx, pack, opts)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", e.provider.Name(), err)
	}
	if len(cands) == 0 {
		return nil, fmt.Errorf("provider %q returned no candidates", e.provider.Name())
	}

	kept := make([]Candidate, 0, len(cands))
	dropped := 0
	for i := range cands {
		c := cands[i]
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid candidate from provider %q: %w", e.provider.Name(), err)
		}
		if e.minConfidence > 0 && c.Confidence < e.minConfidence {
			dropped++
			continue
		}
		c.ID = fmt.Sprintf("cand-%03d", len(kept)+1)
		kept = append(kept, c)
	}
	if dropped > 0 {
		e.log.Info("candidates below confidence floor dropped",
			slog.Int("dropped", dropped),
			slog.Float64("floor", e.minConfidence),
		)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("all %d candidates fell below the confidence floor %.2f", len(cands), e.minConfidence)
	}

	return &CandidateSet{
		Version:    1,
		Provider:   e.provider.Name(),
		CreatedAt:  time.Now().UTC(),
		Candidates: kept,
	}, nil
}
