// Package infer turns an Evidence Pack into Candidate specification
// fragments. A Candidate is a proposal, never a fact: it always carries a
// confidence score, at least one evidence citation, and a
// requires_human_confirmation flag that is never false. Candidates are
// created here, adjudicated by the confirm package, and never mutated.
package infer

import (
	"fmt"
	"time"

	"ripp/internal/section"
)

// SourceInferred is the only legal value for Candidate.Source.
const SourceInferred = "inferred"

// Citation points at the evidence a candidate claim rests on.
type Citation struct {
	File string `yaml:"file"`
	Line int    `yaml:"line,omitempty"`
	Note string `yaml:"note,omitempty"`
}

// Candidate is one proposed specification fragment.
type Candidate struct {
	ID                        string                   `yaml:"id"`
	Source                    string                   `yaml:"source"`
	Provider                  string                   `yaml:"provider"`
	Confidence                float64                  `yaml:"confidence"`
	RequiresHumanConfirmation bool                     `yaml:"requires_human_confirmation"`
	Citations                 []Citation               `yaml:"citations"`
	Sections                  map[section.Name]string  `yaml:"sections"`
	Note                      string                   `yaml:"note,omitempty"`
	CreatedAt                 time.Time                `yaml:"created_at"`
}

// CandidateSet is the persisted output of one inference run.
type CandidateSet struct {
	Version    int         `yaml:"version"`
	Provider   string      `yaml:"provider"`
	CreatedAt  time.Time   `yaml:"created_at"`
	Candidates []Candidate `yaml:"candidates"`
}

// Validate checks the Candidate invariants. A candidate failing any of
// these must be rejected before it reaches confirmation; nothing here
// auto-corrects.
func (c *Candidate) Validate() error {
	if c.Source != SourceInferred {
		return fmt.Errorf("candidate %s: source must be %q, got %q", c.ID, SourceInferred, c.Source)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("candidate %s: confidence %.3f outside [0,1]", c.ID, c.Confidence)
	}
	if len(c.Citations) == 0 {
		return fmt.Errorf("candidate %s: no evidence citations", c.ID)
	}
	for i, cit := range c.Citations {
		if cit.File == "" {
			return fmt.Errorf("candidate %s: citation %d has no file", c.ID, i)
		}
	}
	if !c.RequiresHumanConfirmation {
		return fmt.Errorf("candidate %s: requires_human_confirmation must be true", c.ID)
	}
	if len(c.Sections) == 0 {
		return fmt.Errorf("candidate %s: no content sections", c.ID)
	}
	for name, body := range c.Sections {
		if !section.Known(name) {
			return fmt.Errorf("candidate %s: unknown section %q", c.ID, name)
		}
		if body == "" {
			return fmt.Errorf("candidate %s: section %q is empty", c.ID, name)
		}
	}
	return nil
}
