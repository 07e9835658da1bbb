package confirm

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ripp/internal/infer"
)

// press feeds one key message through Update and returns the new model.
func press(t *testing.T, m ReviewModel, msg tea.Msg) ReviewModel {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(ReviewModel)
	if !ok {
		t.Fatalf("Update returned %T, want ReviewModel", updated)
	}
	return next
}

func runes(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReviewAcceptRejectSkip(t *testing.T) {
	cands := []infer.Candidate{
		testCandidate("cand-001", 0.9),
		testCandidate("cand-002", 0.8),
		testCandidate("cand-003", 0.7),
	}
	m := NewReviewModel(cands)

	m = press(t, m, runes("y")) // accept first
	m = press(t, m, runes("n")) // start rejecting second
	if !m.typingReason {
		t.Fatal("reject keypress did not open the reason input")
	}
	for _, r := range "stale" {
		m = press(t, m, runes(string(r)))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // commit reason
	m = press(t, m, runes("s"))                     // skip third

	if m.Cancelled() {
		t.Fatal("completed review reports cancelled")
	}
	decisions, reasons := m.Decisions(), m.Reasons()
	want := []Decision{DecisionAccept, DecisionReject, DecisionSkip}
	for i, d := range want {
		if decisions[i] != d {
			t.Errorf("decision %d = %v, want %v", i, decisions[i], d)
		}
	}
	if reasons[1] != "stale" {
		t.Errorf("typed reason = %q, want stale", reasons[1])
	}
}

func TestReviewEmptyReasonFallsBackToDefault(t *testing.T) {
	m := NewReviewModel([]infer.Candidate{testCandidate("cand-001", 0.9)})
	m = press(t, m, runes("r"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Reasons()[0] != defaultRejectReason {
		t.Errorf("reason = %q, want default", m.Reasons()[0])
	}
}

func TestReviewCancelKeys(t *testing.T) {
	for _, key := range []tea.Msg{
		tea.KeyMsg{Type: tea.KeyEsc},
		tea.KeyMsg{Type: tea.KeyCtrlC},
		runes("q"),
	} {
		m := NewReviewModel([]infer.Candidate{testCandidate("cand-001", 0.9)})
		m = press(t, m, key)
		if !m.Cancelled() {
			t.Errorf("key %v did not cancel the review", key)
		}
	}
}

func TestReviewCancelWhileTypingReason(t *testing.T) {
	m := NewReviewModel([]infer.Candidate{testCandidate("cand-001", 0.9)})
	m = press(t, m, runes("n"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.Cancelled() {
		t.Error("esc during reason entry did not cancel")
	}
}

func TestReviewViewShowsCandidate(t *testing.T) {
	m := NewReviewModel([]infer.Candidate{testCandidate("cand-001", 0.9)})
	view := m.View()
	if !strings.Contains(view, "cand-001") {
		t.Errorf("view does not name the candidate: %q", view)
	}
	if !strings.Contains(view, "Purpose") {
		t.Errorf("view does not render section headings: %q", view)
	}
}

// ---------------------------------------------------------------------------
// ApplyDecisions
// ---------------------------------------------------------------------------

func TestApplyDecisions(t *testing.T) {
	cands := []infer.Candidate{
		testCandidate("cand-001", 0.9),
		testCandidate("cand-002", 0.8),
		testCandidate("cand-003", 0.7),
	}
	now := time.Now().UTC()
	confirmed, rejected, err := ApplyDecisions(cands,
		[]Decision{DecisionAccept, DecisionReject, DecisionSkip},
		[]string{"", "too speculative", ""},
		"reviewer", now)
	if err != nil {
		t.Fatalf("ApplyDecisions: %v", err)
	}
	if len(confirmed) != 1 || confirmed[0].CandidateID != "cand-001" {
		t.Errorf("confirmed = %+v", confirmed)
	}
	if confirmed[0].Reason != ReasonInteractive {
		t.Errorf("confirmed reason = %q", confirmed[0].Reason)
	}
	if len(rejected) != 1 || rejected[0].CandidateID != "cand-002" {
		t.Errorf("rejected = %+v", rejected)
	}
	if rejected[0].Reason != "too speculative" {
		t.Errorf("rejected reason = %q", rejected[0].Reason)
	}
	// Skipped candidates persist in neither set.
	for _, b := range confirmed {
		if b.CandidateID == "cand-003" {
			t.Error("skipped candidate confirmed")
		}
	}
	for _, b := range rejected {
		if b.CandidateID == "cand-003" {
			t.Error("skipped candidate rejected")
		}
	}
}

func TestApplyDecisionsCountMismatch(t *testing.T) {
	_, _, err := ApplyDecisions(
		[]infer.Candidate{testCandidate("cand-001", 0.9)},
		[]Decision{DecisionAccept, DecisionAccept},
		nil, "reviewer", time.Now())
	if err == nil {
		t.Error("mismatched decision count did not error")
	}
}
