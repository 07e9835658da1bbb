package infer

// heuristic.go: the dependency-free inference variant.
//
// The heuristic provider derives a technology profile from the evidence
// pack and emits exactly one candidate per invocation. Its confidence is
// capped below what network-backed inference can reach, and its note tells
// the reviewer a richer path exists. It must succeed with zero external
// calls and zero configuration so the pipeline always works offline.

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ripp/internal/evidence"
	"ripp/internal/section"
)

// HeuristicConfidence is the fixed cap for heuristic candidates.
const HeuristicConfidence = 0.65

// EnhancementNote is attached to every heuristic candidate.
const EnhancementNote = "enhancement available: enable network-backed inference for richer, higher-confidence candidates"

const maxHeuristicCitations = 8

// HeuristicProvider is the zero-configuration template strategy.
type HeuristicProvider struct{}

// NewHeuristicProvider returns the dependency-free provider.
func NewHeuristicProvider() *HeuristicProvider { return &HeuristicProvider{} }

func (p *HeuristicProvider) Name() string { return "heuristic" }

// IsConfigured is always true: the heuristic path needs nothing.
func (p *HeuristicProvider) IsConfigured() bool { return true }

// profile summarizes the technologies the pack shows evidence of.
type profile struct {
	hasRoutes    bool
	hasAuth      bool
	hasSchemas   bool
	hasWorkflows bool
	cliTool      bool
	frameworks   []string
}

// cliDependencyHints are dependency names suggesting a CLI-style program.
var cliDependencyHints = []string{"cobra", "urfave/cli", "argparse", "click", "commander", "yargs", "clap"}

// frameworkHints maps dependency substrings to a display name.
var frameworkHints = map[string]string{
	"gin-gonic": "Gin", "labstack/echo": "Echo", "go-chi": "chi",
	"express": "Express", "fastify": "Fastify", "react": "React",
	"django": "Django", "flask": "Flask", "fastapi": "FastAPI",
	"rails": "Rails", "spring": "Spring",
}

func buildProfile(pack *evidence.Pack) profile {
	pr := profile{
		hasRoutes:    len(pack.Routes) > 0,
		hasAuth:      len(pack.AuthSignals) > 0,
		hasSchemas:   len(pack.Schemas) > 0,
		hasWorkflows: len(pack.Workflows) > 0,
	}
	seen := map[string]bool{}
	for _, dep := range pack.Dependencies {
		lower := strings.ToLower(dep.Name)
		for _, hint := range cliDependencyHints {
			if strings.Contains(lower, hint) {
				pr.cliTool = true
			}
		}
		for sub, name := range frameworkHints {
			if strings.Contains(lower, sub) && !seen[name] {
				seen[name] = true
				pr.frameworks = append(pr.frameworks, name)
			}
		}
	}
	sort.Strings(pr.frameworks)
	return pr
}

// InferIntent emits exactly one capped-confidence candidate.
func (p *HeuristicProvider) InferIntent(_ context.Context, pack *evidence.Pack, opts Options) ([]Candidate, error) {
	pr := buildProfile(pack)

	sections := map[section.Name]string{
		section.Purpose:         heuristicPurpose(pack, pr),
		section.InteractionFlow: heuristicFlow(pack, pr),
		section.DataContracts:   heuristicDataContracts(pack, pr),
	}
	if pr.hasAuth {
		sections[section.Permissions] = heuristicPermissions(pack)
	}
	if opts.TargetLevel >= 3 && pr.hasWorkflows {
		sections[section.AuditEvents] = heuristicAuditEvents(pack)
	}

	cand := Candidate{
		Source:                    SourceInferred,
		Provider:                  p.Name(),
		Confidence:                HeuristicConfidence,
		RequiresHumanConfirmation: true,
		Citations:                 heuristicCitations(pack),
		Sections:                  sections,
		Note:                      EnhancementNote,
		CreatedAt:                 time.Now().UTC(),
	}
	return []Candidate{cand}, nil
}

// heuristicCitations picks representative evidence records, one category at
// a time, capped at maxHeuristicCitations. An empty pack cites the scan
// root so the candidate invariants still hold.
func heuristicCitations(pack *evidence.Pack) []Citation {
	var cits []Citation
	for _, r := range pack.Routes {
		cits = append(cits, Citation{File: r.Source, Line: r.Line, Note: "route declaration"})
	}
	for _, a := range pack.AuthSignals {
		cits = append(cits, Citation{File: a.Source, Line: a.Line, Note: "auth signal"})
	}
	for _, s := range pack.Schemas {
		cits = append(cits, Citation{File: s.Source, Note: "schema file"})
	}
	for _, d := range pack.Dependencies {
		cits = append(cits, Citation{File: d.Source, Note: "dependency " + d.Name})
	}
	for _, w := range pack.Workflows {
		cits = append(cits, Citation{File: w.Source, Note: "workflow " + w.Name})
	}
	if len(cits) == 0 {
		return []Citation{{File: ".", Note: "empty scan: no signals extracted"}}
	}
	if len(cits) > maxHeuristicCitations {
		cits = cits[:maxHeuristicCitations]
	}
	return cits
}

func heuristicPurpose(pack *evidence.Pack, pr profile) string {
	var b strings.Builder
	b.WriteString("Observed from static evidence only; confirm against actual intent.\n\n")
	switch {
	case pr.hasRoutes && pr.hasAuth:
		b.WriteString("The feature exposes an HTTP interface with access control.")
	case pr.hasRoutes:
		b.WriteString("The feature exposes an HTTP interface.")
	case pr.cliTool:
		b.WriteString("The feature is a command-line tool.")
	default:
		b.WriteString("The feature's delivery surface could not be determined from evidence.")
	}
	if len(pr.frameworks) > 0 {
		fmt.Fprintf(&b, " Built on: %s.", strings.Join(pr.frameworks, ", "))
	}
	fmt.Fprintf(&b, "\n\nEvidence base: %d files, %d extracted signals.", len(pack.Files), pack.SignalCount())
	return b.String()
}

func heuristicFlow(pack *evidence.Pack, pr profile) string {
	if !pr.hasRoutes {
		return "No route declarations were observed. Describe how a user or caller reaches this feature."
	}
	var b strings.Builder
	b.WriteString("Observed entry points:\n")
	limit := len(pack.Routes)
	if limit > 10 {
		limit = 10
	}
	for _, r := range pack.Routes[:limit] {
		fmt.Fprintf(&b, "- %s %s (%s:%d)\n", r.Method, r.Path, r.Source, r.Line)
	}
	if len(pack.Routes) > limit {
		fmt.Fprintf(&b, "- and %d more\n", len(pack.Routes)-limit)
	}
	return strings.TrimRight(b.String(), "\n")
}

func heuristicDataContracts(pack *evidence.Pack, pr profile) string {
	if !pr.hasSchemas {
		return "No schema or migration files were observed. Document the data shapes this feature reads and writes."
	}
	var b strings.Builder
	b.WriteString("Schema evidence:\n")
	for _, s := range pack.Schemas {
		fmt.Fprintf(&b, "- %s\n", s.Source)
	}
	return strings.TrimRight(b.String(), "\n")
}

func heuristicPermissions(pack *evidence.Pack) string {
	var b strings.Builder
	b.WriteString("Authorization signals observed:\n")
	limit := len(pack.AuthSignals)
	if limit > 10 {
		limit = 10
	}
	for _, a := range pack.AuthSignals[:limit] {
		fmt.Fprintf(&b, "- %q at %s:%d\n", a.Keyword, a.Source, a.Line)
	}
	b.WriteString("Confirm the roles and rules behind these signals; the scanner cannot infer policy.")
	return b.String()
}

func heuristicAuditEvents(pack *evidence.Pack) string {
	var b strings.Builder
	b.WriteString("CI workflows that may emit audit-relevant events:\n")
	for _, w := range pack.Workflows {
		fmt.Fprintf(&b, "- %s (triggers: %s)\n", w.Name, strings.Join(w.Triggers, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
