package infer

// provider.go: the closed provider abstraction.
//
// Providers form a closed set of variants behind one interface with exactly
// two operations. The engine swaps between the network-backed and the
// heuristic variant without the caller changing; new backends are added as
// new variants, not by inheriting partial behavior.

import (
	"context"

	"ripp/internal/evidence"
)

// Options bound one inference request.
type Options struct {
	// TargetLevel is the conformance level the caller is aiming for
	// (1..3). Providers use it to decide which optional sections are
	// worth proposing.
	TargetLevel int
	// MaxCandidates caps how many fragments a provider may return.
	// Zero means provider default.
	MaxCandidates int
}

// Provider produces Candidates from an Evidence Pack.
type Provider interface {
	// Name identifies the provider variant in artifacts and logs.
	Name() string
	// IsConfigured reports whether the provider can run at all.
	IsConfigured() bool
	// InferIntent proposes candidates. Implementations must return
	// candidates that satisfy the Candidate invariants or an error;
	// they never silently coerce an invalid result.
	InferIntent(ctx context.Context, pack *evidence.Pack, opts Options) ([]Candidate, error)
}
