package evidence

// extractors.go: category-specific signal extraction.
//
// Each extractor appends records to the pack; every record carries the
// source path, and every stored snippet is redacted first.

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	maxSnippetLen       = 160
	maxSchemaSnippetLen = 400
)

// extract dispatches to the extractor for the file's kind.
func extract(pack *Pack, rel string, kind FileKind, data []byte) error {
	switch kind {
	case KindConfig:
		return extractDependencies(pack, rel, data)
	case KindSource:
		extractSourceSignals(pack, rel, data)
		return nil
	case KindSchema:
		pack.Schemas = append(pack.Schemas, SchemaRecord{
			Source:  rel,
			Snippet: snippet(string(data), maxSchemaSnippetLen),
		})
		return nil
	case KindWorkflow:
		return extractWorkflow(pack, rel, data)
	default:
		return nil
	}
}

// snippet redacts s and truncates it to n bytes on a rune boundary.
func snippet(s string, n int) string {
	s = Redact(strings.TrimSpace(s))
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if i := strings.LastIndexByte(cut, '\n'); i > n/2 {
		cut = cut[:i]
	}
	return cut + "..."
}

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

var goModRequire = regexp.MustCompile(`^\s*(?:require\s+)?([\w./\-]+\.[\w./\-]+)\s+(v[\w.\-+]+)`)

// extractDependencies handles the known manifest formats. Config files that
// are not manifests yield no records, which is not an error.
func extractDependencies(pack *Pack, rel string, data []byte) error {
	switch filepath.Base(rel) {
	case "go.mod":
		extractGoMod(pack, rel, data)
	case "package.json":
		return extractPackageJSON(pack, rel, data)
	case "requirements.txt":
		extractRequirements(pack, rel, data)
	}
	return nil
}

func extractGoMod(pack *Pack, rel string, data []byte) {
	inBlock := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "require ("):
			inBlock = true
			continue
		case inBlock && trimmed == ")":
			inBlock = false
			continue
		}
		if !inBlock && !strings.HasPrefix(trimmed, "require ") {
			continue
		}
		m := goModRequire.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		kind := "runtime"
		if strings.Contains(line, "// indirect") {
			kind = "dev"
		}
		pack.Dependencies = append(pack.Dependencies, DependencyRecord{
			Name: m[1], Version: m[2], Kind: kind, Source: rel,
		})
	}
}

func extractPackageJSON(pack *Pack, rel string, data []byte) error {
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("parse %s: %w", rel, err)
	}
	appendSorted := func(deps map[string]string, kind string) {
		for _, name := range sortedKeys(deps) {
			pack.Dependencies = append(pack.Dependencies, DependencyRecord{
				Name: name, Version: deps[name], Kind: kind, Source: rel,
			})
		}
	}
	appendSorted(manifest.Dependencies, "runtime")
	appendSorted(manifest.DevDependencies, "dev")
	return nil
}

var requirementLine = regexp.MustCompile(`^([A-Za-z0-9._\-\[\]]+)\s*(?:[=<>~!]=+\s*([\w.\-*]+))?`)

func extractRequirements(pack *Pack, rel string, data []byte) {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "-") {
			continue
		}
		m := requirementLine.FindStringSubmatch(trimmed)
		if m == nil || m[1] == "" {
			continue
		}
		pack.Dependencies = append(pack.Dependencies, DependencyRecord{
			Name: m[1], Version: m[2], Kind: "runtime", Source: rel,
		})
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ---------------------------------------------------------------------------
// Source signals: routes and auth keywords
// ---------------------------------------------------------------------------

// routePattern captures a method (fixed or from group 1) and a path.
type routePattern struct {
	re     *regexp.Regexp
	method string // empty means group 1 holds the method
}

// routePatterns is the fixed set of route-declaration shapes the scanner
// recognizes across the common web stacks.
var routePatterns = []routePattern{
	// router.get("/users"), app.post('/login'), e.delete(`/x`)
	{re: regexp.MustCompile(`\b\w+\.(get|post|put|delete|patch|head|options)\(\s*["'` + "`" + `]([^"'` + "`" + `]+)`)},
	// Go net/http style: HandleFunc("/users", ...), Handle("/x", ...)
	{re: regexp.MustCompile(`\bHandle(?:Func)?\(\s*"([^"]+)"`), method: "ANY"},
	// chi/gin/echo method helpers: r.GET("/users", ...), g.POST(...)
	{re: regexp.MustCompile(`\b\w+\.(GET|POST|PUT|DELETE|PATCH)\(\s*["'` + "`" + `]([^"'` + "`" + `]+)`)},
	// Python decorators: @app.route("/users"), @router.get("/users")
	{re: regexp.MustCompile(`@\w+\.(route|get|post|put|delete|patch)\(\s*["']([^"']+)`)},
	// Spring annotations: @GetMapping("/users")
	{re: regexp.MustCompile(`@(Get|Post|Put|Delete|Patch|Request)Mapping\(\s*(?:value\s*=\s*)?"([^"]+)"`)},
}

// authKeywords is the fixed authorization-signal vocabulary.
var authKeywords = []string{
	"authorize", "authenticate", "authentication", "jwt", "oauth",
	"api_key", "apikey", "bearer", "session", "permission", "rbac",
	"login_required", "requires_auth", "access_token",
}

var authRegexps = buildAuthRegexps()

func buildAuthRegexps() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(authKeywords))
	for i, kw := range authKeywords {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return res
}

// extractSourceSignals scans a source file line by line for route
// declarations and auth keywords. Matches record exact file:line and a
// redacted snippet of the matching line.
func extractSourceSignals(pack *Pack, rel string, data []byte) {
	for i, line := range strings.Split(string(data), "\n") {
		lineNo := i + 1

		for _, rp := range routePatterns {
			m := rp.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			method, path := rp.method, ""
			if method == "" {
				method = strings.ToUpper(m[1])
				path = m[2]
			} else {
				path = m[1]
			}
			if method == "ROUTE" {
				method = "ANY"
			}
			pack.Routes = append(pack.Routes, RouteRecord{
				Method:  method,
				Path:    path,
				Source:  rel,
				Line:    lineNo,
				Snippet: snippet(line, maxSnippetLen),
			})
			break
		}

		for j, re := range authRegexps {
			if !re.MatchString(line) {
				continue
			}
			pack.AuthSignals = append(pack.AuthSignals, AuthRecord{
				Keyword: authKeywords[j],
				Source:  rel,
				Line:    lineNo,
				Snippet: snippet(line, maxSnippetLen),
			})
			break
		}
	}
}

// ---------------------------------------------------------------------------
// Workflows
// ---------------------------------------------------------------------------

// extractWorkflow reads the declared name and trigger set of a CI workflow.
func extractWorkflow(pack *Pack, rel string, data []byte) error {
	var doc struct {
		Name string    `yaml:"name"`
		On   yaml.Node `yaml:"on"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", rel, err)
	}
	name := doc.Name
	if name == "" {
		name = filepath.Base(rel)
	}
	pack.Workflows = append(pack.Workflows, WorkflowRecord{
		Name:     name,
		Triggers: workflowTriggers(&doc.On),
		Source:   rel,
	})
	return nil
}

// workflowTriggers normalizes the "on" field, which YAML allows as a
// scalar, a sequence, or a mapping.
func workflowTriggers(n *yaml.Node) []string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return nil
		}
		return []string{n.Value}
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			out = append(out, c.Value)
		}
		return out
	case yaml.MappingNode:
		var out []string
		for i := 0; i < len(n.Content); i += 2 {
			out = append(out, n.Content[i].Value)
		}
		return out
	default:
		return nil
	}
}
