package packet

// render.go: human-readable document rendering.
//
// The markdown document and the structured artifact are both derived from
// the same in-memory Packet, never separately authored, so they cannot
// drift from each other. The document carries its metadata as YAML
// frontmatter and stays machine-readable on its own.

import (
	"fmt"
	"strings"
	"time"

	"ripp/internal/frontmatter"
	"ripp/internal/section"
)

// DocumentMeta is the frontmatter embedded in the rendered document.
type DocumentMeta struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Status   string    `yaml:"status"`
	Level    int       `yaml:"level"`
	Compiled time.Time `yaml:"compiled"`
}

// RenderDocument renders p as a markdown document with YAML frontmatter.
func RenderDocument(p *Packet) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", p.Title)
	for _, s := range p.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n", section.Title(s.Name))
		b.WriteString(strings.TrimRight(s.Body, "\n"))
		b.WriteString("\n")
		if len(s.Sources) > 0 {
			fmt.Fprintf(&b, "\n> Confirmed from: %s\n", strings.Join(s.Sources, ", "))
		}
	}

	return frontmatter.Compose(DocumentMeta{
		ID:       p.ID,
		Title:    p.Title,
		Status:   p.Status,
		Level:    p.Level,
		Compiled: p.CreatedAt,
	}, b.String())
}
