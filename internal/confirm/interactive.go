package confirm

// interactive.go: serial candidate review as a bubbletea model.
//
// The model presents one candidate at a time and blocks on a single
// decision per candidate: accept, reject (with an optional typed reason),
// or skip. Candidates are processed in stable input order. Cancelling
// (esc, ctrl+c, q, or the input stream closing) ends the review cleanly
// with nothing persisted.

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ripp/internal/infer"
	"ripp/internal/section"
)

// Decision is one reviewer verdict for one candidate.
type Decision int

const (
	DecisionSkip Decision = iota
	DecisionAccept
	DecisionReject
)

// defaultRejectReason is recorded when the reviewer gives no reason.
const defaultRejectReason = "rejected interactively"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// ReviewModel walks the candidate list one decision at a time.
type ReviewModel struct {
	candidates []infer.Candidate
	decisions  []Decision
	reasons    []string
	idx        int

	// typingReason is set while the reviewer types a rejection reason.
	typingReason bool
	reasonInput  textinput.Model

	done      bool
	cancelled bool
}

// NewReviewModel builds a review over candidates in their input order.
func NewReviewModel(candidates []infer.Candidate) ReviewModel {
	ti := textinput.New()
	ti.Placeholder = "why? (enter to record)"
	ti.CharLimit = 200
	return ReviewModel{
		candidates:  candidates,
		decisions:   make([]Decision, len(candidates)),
		reasons:     make([]string, len(candidates)),
		reasonInput: ti,
	}
}

func (m ReviewModel) Init() tea.Cmd { return nil }

// Update records one decision per keypress and advances. The review never
// proceeds past the last candidate without quitting the program.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.done {
		return m, tea.Quit
	}

	if m.typingReason {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			reason := strings.TrimSpace(m.reasonInput.Value())
			if reason == "" {
				reason = defaultRejectReason
			}
			m.decisions[m.idx] = DecisionReject
			m.reasons[m.idx] = reason
			m.typingReason = false
			m.reasonInput.SetValue("")
			m.reasonInput.Blur()
			return m.advance()
		}
		var cmd tea.Cmd
		m.reasonInput, cmd = m.reasonInput.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	case "y", "a":
		m.decisions[m.idx] = DecisionAccept
		return m.advance()
	case "n", "r":
		m.typingReason = true
		m.reasonInput.Focus()
		return m, textinput.Blink
	case "s":
		m.decisions[m.idx] = DecisionSkip
		return m.advance()
	}
	return m, nil
}

func (m ReviewModel) advance() (tea.Model, tea.Cmd) {
	m.idx++
	if m.idx >= len(m.candidates) {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ReviewModel) View() string {
	if m.done || len(m.candidates) == 0 {
		return ""
	}
	c := m.candidates[m.idx]

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Candidate %d/%d: %s", m.idx+1, len(m.candidates), c.ID)))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf("confidence %.2f, %d citations, provider %s", c.Confidence, len(c.Citations), c.Provider)))
	b.WriteString("\n\n")

	for _, name := range section.Order {
		body, ok := c.Sections[name]
		if !ok {
			continue
		}
		b.WriteString(sectionStyle.Render("## " + section.Title(name)))
		b.WriteString("\n")
		b.WriteString(previewLines(body, 6))
		b.WriteString("\n")
	}
	if c.Note != "" {
		b.WriteString(metaStyle.Render("note: " + c.Note))
		b.WriteString("\n")
	}

	if m.typingReason {
		b.WriteString("\nrejection reason: " + m.reasonInput.View() + "\n")
	} else {
		b.WriteString(helpStyle.Render("[y] accept  [n] reject  [s] skip  [q] cancel"))
	}
	return b.String()
}

// previewLines truncates body to at most n lines for display.
func previewLines(body string, n int) string {
	lines := strings.Split(body, "\n")
	if len(lines) <= n {
		return body
	}
	return strings.Join(lines[:n], "\n") + "\n" + metaStyle.Render(fmt.Sprintf("(%d more lines)", len(lines)-n))
}

// Cancelled reports whether the review ended without completing.
func (m ReviewModel) Cancelled() bool { return m.cancelled }

// Decisions returns the recorded verdicts, valid only when the review
// completed without cancelling.
func (m ReviewModel) Decisions() []Decision { return m.decisions }

// Reasons returns the typed rejection reasons, parallel to Decisions.
func (m ReviewModel) Reasons() []string { return m.reasons }

// ApplyDecisions maps completed review decisions onto blocks. Skipped
// candidates persist in neither set. reasons may be nil; rejected
// candidates then carry the default reason.
func ApplyDecisions(cands []infer.Candidate, decisions []Decision, reasons []string, actor string, now time.Time) ([]ConfirmedBlock, []RejectedBlock, error) {
	if len(decisions) != len(cands) {
		return nil, nil, fmt.Errorf("decision count %d does not match candidate count %d", len(decisions), len(cands))
	}
	var confirmed []ConfirmedBlock
	var rejected []RejectedBlock
	for i, c := range cands {
		switch decisions[i] {
		case DecisionAccept:
			confirmed = append(confirmed, NewConfirmed(c, actor, ReasonInteractive, now))
		case DecisionReject:
			reason := defaultRejectReason
			if reasons != nil && reasons[i] != "" {
				reason = reasons[i]
			}
			rejected = append(rejected, NewRejected(c, actor, reason, now))
		case DecisionSkip:
			// not persisted
		}
	}
	return confirmed, rejected, nil
}

// RunInteractive executes the review program on the terminal. It returns
// cancelled=true, with no blocks, when the reviewer aborted.
func RunInteractive(cands []infer.Candidate, actor string) (confirmed []ConfirmedBlock, rejected []RejectedBlock, cancelled bool, err error) {
	m := NewReviewModel(cands)
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, nil, false, fmt.Errorf("interactive review: %w", err)
	}
	final, ok := result.(ReviewModel)
	if !ok || final.Cancelled() {
		return nil, nil, true, nil
	}
	confirmed, rejected, err = ApplyDecisions(cands, final.Decisions(), final.Reasons(), actor, time.Now().UTC())
	return confirmed, rejected, false, err
}
