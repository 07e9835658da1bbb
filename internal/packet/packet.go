// Package packet compiles Confirmed Blocks into the Canonical Packet: the
// final merged, schema-shaped specification object. A packet is created
// once per build, immutable once written, and superseded (not edited) by
// the next build.
package packet

import (
	"time"

	"ripp/internal/section"
)

// Statuses a packet can carry.
const (
	StatusDraft    = "draft"
	StatusReviewed = "reviewed"
)

// Placeholder marks a structurally required section no Confirmed Block
// supplied. It is explicit so the external schema validator passes while a
// human can still find every unwritten part.
const Placeholder = "[PLACEHOLDER] No confirmed evidence supplied this section. Replace with human-authored content."

// Metadata seeds the identity fields of a compiled packet.
type Metadata struct {
	ID    string
	Title string
	// Status defaults to draft when empty.
	Status string
}

// Section is one rendered content section of the packet.
type Section struct {
	Name        section.Name `yaml:"name"`
	Body        string       `yaml:"body"`
	Placeholder bool         `yaml:"placeholder,omitempty"`
	// Sources lists the candidate IDs whose content reached this
	// section, in confirmation order; the last one won any conflict.
	Sources []string `yaml:"sources,omitempty"`
}

// Packet is the canonical merged output object. Level is always derived
// from which optional sections are present, never asserted by a block.
type Packet struct {
	Version   int       `yaml:"version"`
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Status    string    `yaml:"status"`
	Level     int       `yaml:"level"`
	CreatedAt time.Time `yaml:"created_at"`
	Sections  []Section `yaml:"sections"`
}

// SectionByName returns the packet section with the given name, if present.
func (p *Packet) SectionByName(name section.Name) (Section, bool) {
	for _, s := range p.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// DeriveLevel computes the conformance level from the set of present
// (non-placeholder) sections: 3 if any top-tier section is present, else 2
// if any mid-tier section is present, else 1. Pure and order-independent.
func DeriveLevel(present map[section.Name]bool) int {
	for _, n := range section.TopTier {
		if present[n] {
			return 3
		}
	}
	for _, n := range section.MidTier {
		if present[n] {
			return 2
		}
	}
	return 1
}
