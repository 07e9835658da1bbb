// Package checklist is the bidirectional codec between a Candidate set and
// the plain-text checklist artifact a human edits offline.
//
// Render and Parse are two halves of one serialization format. Both drive
// section content through the ordered wire form derived from
// section.Order, so a section added to the model survives the round trip
// without touching this package. Rendering has no effect on confirmation
// state; confirmation happens only when the edited artifact is parsed.
package checklist

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ripp/internal/confirm"
	"ripp/internal/infer"
	"ripp/internal/section"
)

// marker identifies a document as a ripp checklist. Parse refuses
// documents without it.
const marker = "<!-- ripp:checklist v1 -->"

// ErrNothingSelected is returned when the parsed checklist has zero
// checked boxes. It is a user decision problem, not a parse problem.
var ErrNothingSelected = errors.New("nothing selected: check at least one box in the checklist, then re-run")

// wireSection is one ordered name/body pair inside an embedded block.
// A list, not a map, so document order is deterministic and driven by
// section.Order on both sides of the codec.
type wireSection struct {
	Name string `yaml:"name"`
	Body string `yaml:"body"`
}

// wireBlock is the YAML shape embedded per candidate.
type wireBlock struct {
	ID                        string           `yaml:"id"`
	Source                    string           `yaml:"source"`
	Provider                  string           `yaml:"provider"`
	Confidence                float64          `yaml:"confidence"`
	RequiresHumanConfirmation bool             `yaml:"requires_human_confirmation"`
	Note                      string           `yaml:"note,omitempty"`
	CreatedAt                 time.Time        `yaml:"created_at"`
	Citations                 []infer.Citation `yaml:"citations"`
	Sections                  []wireSection    `yaml:"sections"`
}

func toWire(c infer.Candidate) wireBlock {
	w := wireBlock{
		ID:                        c.ID,
		Source:                    c.Source,
		Provider:                  c.Provider,
		Confidence:                c.Confidence,
		RequiresHumanConfirmation: c.RequiresHumanConfirmation,
		Note:                      c.Note,
		CreatedAt:                 c.CreatedAt,
		Citations:                 c.Citations,
	}
	for _, name := range section.Order {
		if body, ok := c.Sections[name]; ok {
			w.Sections = append(w.Sections, wireSection{Name: string(name), Body: body})
		}
	}
	return w
}

func fromWire(w wireBlock) infer.Candidate {
	c := infer.Candidate{
		ID:                        w.ID,
		Source:                    w.Source,
		Provider:                  w.Provider,
		Confidence:                w.Confidence,
		RequiresHumanConfirmation: w.RequiresHumanConfirmation,
		Note:                      w.Note,
		CreatedAt:                 w.CreatedAt,
		Citations:                 w.Citations,
		Sections:                  make(map[section.Name]string, len(w.Sections)),
	}
	for _, s := range w.Sections {
		c.Sections[section.Name(s.Name)] = s.Body
	}
	return c
}

// Render serializes candidates into the checklist artifact.
func Render(cands []infer.Candidate) (string, error) {
	var b strings.Builder
	b.WriteString("# Confirmation Checklist\n")
	b.WriteString(marker + "\n\n")
	b.WriteString("Check the box of every candidate you approve, then run\n")
	b.WriteString("`ripp confirm --from-checklist`. You may edit the YAML blocks;\n")
	b.WriteString("edited content is re-validated when the checklist is parsed.\n")

	for _, c := range cands {
		fmt.Fprintf(&b, "\n## %s\n\n", c.ID)
		fmt.Fprintf(&b, "- [ ] %s (confidence %.2f, %d citations)\n\n", c.ID, c.Confidence, len(c.Citations))

		data, err := yaml.Marshal(toWire(c))
		if err != nil {
			return "", fmt.Errorf("marshal candidate %s: %w", c.ID, err)
		}
		fmt.Fprintf(&b, "```yaml ripp:candidate %s\n%s```\n", c.ID, data)
	}
	return b.String(), nil
}

// ParseResult separates adjudicated items after a successful parse.
type ParseResult struct {
	Confirmed []confirm.ConfirmedBlock
	Rejected  []confirm.RejectedBlock
	Unchecked int
}

var (
	checkboxRe   = regexp.MustCompile(`^- \[( |x|X)\] (\S+)`)
	blockStartRe = regexp.MustCompile("^```yaml ripp:candidate (\\S+)\\s*$")
)

// Parse reads an edited checklist document back into blocks.
//
// Structural problems (missing marker, checkbox without an embedded block,
// unterminated block) fail the whole parse with every such error listed.
// Content problems in individual checked items do not: those items land in
// Rejected with a validation-failure reason and the parse proceeds with
// whatever validated. Zero checked boxes returns ErrNothingSelected.
func Parse(doc, actor string, now time.Time) (*ParseResult, error) {
	if !strings.Contains(doc, marker) {
		return nil, fmt.Errorf("not a ripp checklist: missing %q marker", marker)
	}

	type item struct {
		id      string
		checked bool
	}
	var items []item
	blocks := map[string]string{}
	var structural []string

	lines := strings.Split(doc, "\n")
	for i := 0; i < len(lines); i++ {
		if m := checkboxRe.FindStringSubmatch(lines[i]); m != nil {
			items = append(items, item{id: m[2], checked: m[1] != " "})
			continue
		}
		if m := blockStartRe.FindStringSubmatch(lines[i]); m != nil {
			id := m[1]
			var body []string
			closed := false
			for i++; i < len(lines); i++ {
				if strings.TrimRight(lines[i], " \t") == "```" {
					closed = true
					break
				}
				body = append(body, lines[i])
			}
			if !closed {
				structural = append(structural, fmt.Sprintf("unterminated candidate block %q", id))
				continue
			}
			blocks[id] = strings.Join(body, "\n")
		}
	}

	if len(items) == 0 {
		structural = append(structural, "no checklist items found")
	}
	for _, it := range items {
		if _, ok := blocks[it.id]; !ok {
			structural = append(structural, fmt.Sprintf("checklist item %q has no embedded candidate block", it.id))
		}
	}
	if len(structural) > 0 {
		return nil, fmt.Errorf("malformed checklist:\n  %s", strings.Join(structural, "\n  "))
	}

	res := &ParseResult{}
	for _, it := range items {
		if !it.checked {
			res.Unchecked++
			continue
		}

		// Each embedded block is re-parsed independently of the
		// surrounding prose and re-validated against the same
		// invariants used at inference time.
		var w wireBlock
		if err := yaml.Unmarshal([]byte(blocks[it.id]), &w); err != nil {
			res.Rejected = append(res.Rejected, confirm.RejectedBlock{
				CandidateID: it.id,
				Actor:       actor,
				RejectedAt:  now,
				Reason:      fmt.Sprintf("checklist block is not valid YAML: %v", err),
			})
			continue
		}
		cand := fromWire(w)
		if err := cand.Validate(); err != nil {
			res.Rejected = append(res.Rejected, confirm.NewRejected(cand, actor,
				fmt.Sprintf("checklist validation failed: %v", err), now))
			continue
		}
		res.Confirmed = append(res.Confirmed, confirm.NewConfirmed(cand, actor, confirm.ReasonChecklist, now))
	}

	if len(res.Confirmed) == 0 && len(res.Rejected) == 0 {
		return nil, ErrNothingSelected
	}
	return res, nil
}
