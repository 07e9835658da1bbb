// Package confirm adjudicates Candidates into Confirmed and Rejected
// Blocks. A Confirmed Block exists only because a human approved it: an
// interactive "yes", a confidence above the auto-approval threshold, or a
// checked box in the checklist artifact. Blocks copy candidate content,
// never share it, so no stage mutates another stage's output.
package confirm

import (
	"time"

	"ripp/internal/infer"
	"ripp/internal/section"
)

// Reasons recorded on blocks.
const (
	ReasonAutoApproved = "auto-approved"
	ReasonInteractive  = "accepted interactively"
	ReasonChecklist    = "confirmed via checklist"
)

// ConfirmedBlock is a candidate's content after explicit human approval.
// The original confidence and citations are preserved for audit.
type ConfirmedBlock struct {
	CandidateID string                  `yaml:"candidate_id"`
	Actor       string                  `yaml:"actor"`
	ConfirmedAt time.Time               `yaml:"confirmed_at"`
	Confidence  float64                 `yaml:"confidence"`
	Reason      string                  `yaml:"reason"`
	Citations   []infer.Citation        `yaml:"citations"`
	Sections    map[section.Name]string `yaml:"sections"`
}

// RejectedBlock mirrors ConfirmedBlock plus the rejection reason. It is
// retained for audit and never consumed by the compiler.
type RejectedBlock struct {
	CandidateID string                  `yaml:"candidate_id"`
	Actor       string                  `yaml:"actor"`
	RejectedAt  time.Time               `yaml:"rejected_at"`
	Confidence  float64                 `yaml:"confidence"`
	Reason      string                  `yaml:"reason"`
	Citations   []infer.Citation        `yaml:"citations"`
	Sections    map[section.Name]string `yaml:"sections"`
}

// ConfirmedSet is the persisted output of one confirmation run.
type ConfirmedSet struct {
	Version   int              `yaml:"version"`
	Mode      string           `yaml:"mode"`
	CreatedAt time.Time        `yaml:"created_at"`
	Blocks    []ConfirmedBlock `yaml:"blocks"`
}

// RejectedSet holds the audit trail of rejections from one run.
type RejectedSet struct {
	Version   int             `yaml:"version"`
	Mode      string          `yaml:"mode"`
	CreatedAt time.Time       `yaml:"created_at"`
	Blocks    []RejectedBlock `yaml:"blocks"`
}

// NewConfirmed copies c into a ConfirmedBlock.
func NewConfirmed(c infer.Candidate, actor, reason string, at time.Time) ConfirmedBlock {
	return ConfirmedBlock{
		CandidateID: c.ID,
		Actor:       actor,
		ConfirmedAt: at,
		Confidence:  c.Confidence,
		Reason:      reason,
		Citations:   copyCitations(c.Citations),
		Sections:    copySections(c.Sections),
	}
}

// NewRejected copies c into a RejectedBlock with the given reason.
func NewRejected(c infer.Candidate, actor, reason string, at time.Time) RejectedBlock {
	return RejectedBlock{
		CandidateID: c.ID,
		Actor:       actor,
		RejectedAt:  at,
		Confidence:  c.Confidence,
		Reason:      reason,
		Citations:   copyCitations(c.Citations),
		Sections:    copySections(c.Sections),
	}
}

func copySections(in map[section.Name]string) map[section.Name]string {
	out := make(map[section.Name]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyCitations(in []infer.Citation) []infer.Citation {
	out := make([]infer.Citation, len(in))
	copy(out, in)
	return out
}
