// Package evidence scans a repository tree and produces an immutable
// Evidence Pack: classified file entries plus categorized signal records
// (dependencies, routes, auth keywords, schema hints, CI workflows).
//
// A Pack is created once by Scan and never mutated. Every record cites at
// least its source file path, and every snippet passes through redaction
// before it is stored.
package evidence

import "time"

// FileKind classifies a scanned file by path and extension heuristics.
type FileKind string

const (
	KindWorkflow FileKind = "workflow"
	KindConfig   FileKind = "config"
	KindSchema   FileKind = "schema"
	KindSource   FileKind = "source"
	KindOther    FileKind = "other"
)

// Pack is the immutable snapshot produced by one scan.
type Pack struct {
	Version   int       `yaml:"version"`
	Root      string    `yaml:"root"`
	CreatedAt time.Time `yaml:"created_at"`

	// Patterns and ceiling the scan ran with, kept for audit.
	Include      []string `yaml:"include"`
	Exclude      []string `yaml:"exclude"`
	MaxFileBytes int64    `yaml:"max_file_bytes"`

	Files   []FileEntry `yaml:"files"`
	Skipped SkipCounts  `yaml:"skipped"`

	Dependencies []DependencyRecord `yaml:"dependencies,omitempty"`
	Routes       []RouteRecord      `yaml:"routes,omitempty"`
	AuthSignals  []AuthRecord       `yaml:"auth_signals,omitempty"`
	Schemas      []SchemaRecord     `yaml:"schemas,omitempty"`
	Workflows    []WorkflowRecord   `yaml:"workflows,omitempty"`
}

// FileEntry is one scanned file: root-relative forward-slash path, content
// hash, byte size, and classified kind.
type FileEntry struct {
	Path   string   `yaml:"path"`
	SHA256 string   `yaml:"sha256"`
	Size   int64    `yaml:"size"`
	Kind   FileKind `yaml:"kind"`
}

// SkipCounts tallies files the scan left out. Skips are counted, never fatal.
type SkipCounts struct {
	Excluded   int `yaml:"excluded"`
	Oversize   int `yaml:"oversize"`
	Unreadable int `yaml:"unreadable"`
}

// DependencyRecord is one name/version/kind triple from a manifest.
type DependencyRecord struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Kind    string `yaml:"kind"` // "runtime" | "dev"
	Source  string `yaml:"source"`
}

// RouteRecord is one route declaration matched in a source file.
type RouteRecord struct {
	Method  string `yaml:"method"`
	Path    string `yaml:"path"`
	Source  string `yaml:"source"`
	Line    int    `yaml:"line"`
	Snippet string `yaml:"snippet"`
}

// AuthRecord is one authorization-keyword match in a source file.
type AuthRecord struct {
	Keyword string `yaml:"keyword"`
	Source  string `yaml:"source"`
	Line    int    `yaml:"line"`
	Snippet string `yaml:"snippet"`
}

// SchemaRecord is a truncated snippet of a schema or migration file.
type SchemaRecord struct {
	Source  string `yaml:"source"`
	Snippet string `yaml:"snippet"`
}

// WorkflowRecord is the declared name and trigger set of a CI workflow file.
type WorkflowRecord struct {
	Name     string   `yaml:"name"`
	Triggers []string `yaml:"triggers,omitempty"`
	Source   string   `yaml:"source"`
}

// SignalCount returns the total number of evidence records across all
// categories. A pack with zero signals is valid, just low-signal.
func (p *Pack) SignalCount() int {
	return len(p.Dependencies) + len(p.Routes) + len(p.AuthSignals) + len(p.Schemas) + len(p.Workflows)
}
