package infer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ripp/internal/evidence"
)

// stubProvider returns scripted candidates or a scripted error.
type stubProvider struct {
	name       string
	configured bool
	cands      []Candidate
	err        error
}

func (s *stubProvider) Name() string       { return s.name }
func (s *stubProvider) IsConfigured() bool { return s.configured }
func (s *stubProvider) InferIntent(context.Context, *evidence.Pack, Options) ([]Candidate, error) {
	return s.cands, s.err
}

func stubCandidate(confidence float64) Candidate {
	c := validCandidate()
	c.ID = ""
	c.Confidence = confidence
	return c
}

func TestEngineAssignsSequentialIDs(t *testing.T) {
	p := &stubProvider{name: "stub", configured: true, cands: []Candidate{
		stubCandidate(0.9), stubCandidate(0.8), stubCandidate(0.7),
	}}
	set, err := NewEngine(p, 0).Infer(context.Background(), &evidence.Pack{}, Options{})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	want := []string{"cand-001", "cand-002", "cand-003"}
	for i, c := range set.Candidates {
		if c.ID != want[i] {
			t.Errorf("candidate %d ID = %q, want %q", i, c.ID, want[i])
		}
	}
	if set.Provider != "stub" {
		t.Errorf("set provider = %q, want stub", set.Provider)
	}
}

func TestEngineConfidenceFloorDropsSilently(t *testing.T) {
	p := &stubProvider{name: "stub", configured: true, cands: []Candidate{
		stubCandidate(0.9), stubCandidate(0.3), stubCandidate(0.8),
	}}
	set, err := NewEngine(p, 0.5).Infer(context.Background(), &evidence.Pack{}, Options{})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if len(set.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2 after floor", len(set.Candidates))
	}
	// IDs stay dense after the drop.
	if set.Candidates[1].ID != "cand-002" {
		t.Errorf("second kept ID = %q, want cand-002", set.Candidates[1].ID)
	}
	for _, c := range set.Candidates {
		if c.Confidence < 0.5 {
			t.Errorf("candidate below floor retained: %+v", c)
		}
	}
}

func TestEngineAllBelowFloorIsError(t *testing.T) {
	p := &stubProvider{name: "stub", configured: true, cands: []Candidate{
		stubCandidate(0.2), stubCandidate(0.1),
	}}
	_, err := NewEngine(p, 0.5).Infer(context.Background(), &evidence.Pack{}, Options{})
	if err == nil {
		t.Fatal("all candidates below floor did not error")
	}
	if !strings.Contains(err.Error(), "confidence floor") {
		t.Errorf("error %v does not name the floor", err)
	}
}

func TestEngineInvalidCandidateIsHardError(t *testing.T) {
	bad := stubCandidate(0.9)
	bad.Citations = nil
	p := &stubProvider{name: "stub", configured: true, cands: []Candidate{stubCandidate(0.9), bad}}
	_, err := NewEngine(p, 0).Infer(context.Background(), &evidence.Pack{}, Options{})
	if err == nil {
		t.Fatal("invalid candidate did not fail the run")
	}
	if !strings.Contains(err.Error(), "invalid candidate") {
		t.Errorf("error = %v", err)
	}
}

func TestEngineUnconfiguredProvider(t *testing.T) {
	p := &stubProvider{name: "openai", configured: false}
	_, err := NewEngine(p, 0).Infer(context.Background(), &evidence.Pack{}, Options{})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Errorf("error = %v, want not-configured", err)
	}
}

func TestEngineProviderErrorPropagates(t *testing.T) {
	boom := errors.New("model unavailable")
	p := &stubProvider{name: "stub", configured: true, err: boom}
	_, err := NewEngine(p, 0).Infer(context.Background(), &evidence.Pack{}, Options{})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped provider error", err)
	}
}

func TestEngineZeroCandidatesIsError(t *testing.T) {
	p := &stubProvider{name: "stub", configured: true}
	_, err := NewEngine(p, 0).Infer(context.Background(), &evidence.Pack{}, Options{})
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Errorf("error = %v, want no-candidates", err)
	}
}
