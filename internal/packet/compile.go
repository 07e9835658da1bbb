package packet

// compile.go: merge Confirmed Blocks into one Canonical Packet.
//
// When several blocks supply the same section, later blocks in
// confirmation order win (last-write-wins). That tie-break is the one
// place content can be silently lost across blocks, so every overwrite is
// logged and the losing sources stay listed on the section.

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ripp/internal/confirm"
	"ripp/internal/section"
)

// Compile merges blocks into a validated packet. It returns an error, and
// the caller writes nothing, when the result would fail the minimal
// required-field check.
func Compile(blocks []confirm.ConfirmedBlock, meta Metadata) (*Packet, error) {
	log := slog.Default().With(slog.String("component", "compile"))

	bodies := make(map[section.Name]string)
	sources := make(map[section.Name][]string)

	for _, b := range blocks {
		for _, name := range section.Order {
			body, ok := b.Sections[name]
			if !ok {
				continue
			}
			if prev, exists := bodies[name]; exists && prev != body {
				log.Warn("section overwritten by later block",
					slog.String("section", string(name)),
					slog.String("winner", b.CandidateID),
				)
			}
			bodies[name] = body
			sources[name] = append(sources[name], b.CandidateID)
		}
	}

	present := make(map[section.Name]bool, len(bodies))
	for name := range bodies {
		present[name] = true
	}

	status := meta.Status
	if status == "" {
		status = StatusDraft
	}

	p := &Packet{
		Version:   1,
		ID:        meta.ID,
		Title:     meta.Title,
		Status:    status,
		Level:     DeriveLevel(present),
		CreatedAt: time.Now().UTC(),
	}

	for _, name := range section.Order {
		body, ok := bodies[name]
		switch {
		case ok:
			p.Sections = append(p.Sections, Section{
				Name:    name,
				Body:    body,
				Sources: sources[name],
			})
		case section.IsRequired(name):
			p.Sections = append(p.Sections, Section{
				Name:        name,
				Body:        Placeholder,
				Placeholder: true,
			})
		}
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// validate is the compiler's own minimal required-field check, run before
// anything is written. The external schema validator remains authoritative;
// this only guarantees the packet is not structurally hollow.
func (p *Packet) validate() error {
	var missing []string
	if p.ID == "" {
		missing = append(missing, "id")
	}
	if p.Title == "" {
		missing = append(missing, "title")
	}
	if p.Status == "" {
		missing = append(missing, "status")
	}
	if p.Level < 1 || p.Level > 3 {
		missing = append(missing, fmt.Sprintf("level (%d outside 1..3)", p.Level))
	}
	for _, name := range section.Required {
		s, ok := p.SectionByName(name)
		if !ok || s.Body == "" {
			missing = append(missing, "sections."+string(name))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("packet failed validation; missing or invalid fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
