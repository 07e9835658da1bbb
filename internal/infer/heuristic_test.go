package infer

import (
	"context"
	"strings"
	"testing"

	"ripp/internal/evidence"
	"ripp/internal/section"
)

// richPack fabricates an evidence pack exercising every signal category.
func richPack() *evidence.Pack {
	return &evidence.Pack{
		Version: 1,
		Files: []evidence.FileEntry{
			{Path: "go.mod", Kind: evidence.KindConfig},
			{Path: "server/routes.go", Kind: evidence.KindSource},
		},
		Dependencies: []evidence.DependencyRecord{
			{Name: "github.com/gin-gonic/gin", Version: "v1.10.0", Kind: "runtime", Source: "go.mod"},
		},
		Routes: []evidence.RouteRecord{
			{Method: "GET", Path: "/users", Source: "server/routes.go", Line: 10},
			{Method: "POST", Path: "/login", Source: "server/routes.go", Line: 14},
		},
		AuthSignals: []evidence.AuthRecord{
			{Keyword: "jwt", Source: "server/auth.go", Line: 3},
		},
		Schemas: []evidence.SchemaRecord{
			{Source: "db/schema.sql"},
		},
		Workflows: []evidence.WorkflowRecord{
			{Name: "CI", Triggers: []string{"push"}, Source: ".github/workflows/ci.yml"},
		},
	}
}

func TestHeuristicEmitsExactlyOneValidCandidate(t *testing.T) {
	p := NewHeuristicProvider()
	cands, err := p.InferIntent(context.Background(), richPack(), Options{TargetLevel: 2})
	if err != nil {
		t.Fatalf("InferIntent: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want exactly 1", len(cands))
	}
	c := cands[0]
	if err := c.Validate(); err != nil {
		t.Errorf("heuristic candidate fails its own invariants: %v", err)
	}
	if c.Confidence != HeuristicConfidence {
		t.Errorf("confidence = %v, want fixed %v", c.Confidence, HeuristicConfidence)
	}
	if c.Note != EnhancementNote {
		t.Errorf("note = %q, want the enhancement note", c.Note)
	}
	if c.Provider != "heuristic" {
		t.Errorf("provider = %q", c.Provider)
	}
}

func TestHeuristicSectionsFollowEvidence(t *testing.T) {
	p := NewHeuristicProvider()
	cands, err := p.InferIntent(context.Background(), richPack(), Options{TargetLevel: 2})
	if err != nil {
		t.Fatalf("InferIntent: %v", err)
	}
	sections := cands[0].Sections

	for _, name := range section.Required {
		if sections[name] == "" {
			t.Errorf("required section %q missing or empty", name)
		}
	}
	// Auth evidence present, so a permissions section is proposed.
	if sections[section.Permissions] == "" {
		t.Error("permissions section missing despite auth signals")
	}
	// Level 2 target never proposes top-tier sections.
	if _, ok := sections[section.AuditEvents]; ok {
		t.Error("audit_events proposed at target level 2")
	}
	if !strings.Contains(sections[section.InteractionFlow], "GET /users") {
		t.Errorf("interaction_flow does not list observed routes: %q", sections[section.InteractionFlow])
	}
	if !strings.Contains(sections[section.Purpose], "Gin") {
		t.Errorf("purpose does not name the detected framework: %q", sections[section.Purpose])
	}
}

func TestHeuristicLevelThreeAddsAuditEvents(t *testing.T) {
	p := NewHeuristicProvider()
	cands, err := p.InferIntent(context.Background(), richPack(), Options{TargetLevel: 3})
	if err != nil {
		t.Fatalf("InferIntent: %v", err)
	}
	body := cands[0].Sections[section.AuditEvents]
	if body == "" {
		t.Fatal("audit_events missing at target level 3 with workflow evidence")
	}
	if !strings.Contains(body, "CI") {
		t.Errorf("audit_events does not cite the workflow: %q", body)
	}
}

func TestHeuristicEmptyPackStillValidates(t *testing.T) {
	p := NewHeuristicProvider()
	cands, err := p.InferIntent(context.Background(), &evidence.Pack{Version: 1}, Options{TargetLevel: 2})
	if err != nil {
		t.Fatalf("InferIntent on empty pack: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1", len(cands))
	}
	c := cands[0]
	if err := c.Validate(); err != nil {
		t.Errorf("empty-pack candidate invalid: %v", err)
	}
	if len(c.Citations) != 1 || c.Citations[0].File != "." {
		t.Errorf("empty-pack citations = %+v, want single scan-root citation", c.Citations)
	}
}

func TestHeuristicCitationCap(t *testing.T) {
	pack := &evidence.Pack{Version: 1}
	for i := 0; i < 20; i++ {
		pack.Routes = append(pack.Routes, evidence.RouteRecord{
			Method: "GET", Path: "/r", Source: "routes.go", Line: i + 1,
		})
	}
	cits := heuristicCitations(pack)
	if len(cits) != maxHeuristicCitations {
		t.Errorf("got %d citations, want cap %d", len(cits), maxHeuristicCitations)
	}
}

func TestBuildProfileDetectsCLITools(t *testing.T) {
	pack := &evidence.Pack{
		Dependencies: []evidence.DependencyRecord{
			{Name: "github.com/spf13/cobra", Source: "go.mod"},
		},
	}
	pr := buildProfile(pack)
	if !pr.cliTool {
		t.Error("cobra dependency not detected as a CLI hint")
	}
}
