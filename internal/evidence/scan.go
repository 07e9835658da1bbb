package evidence

// scan.go: file tree walker, pattern matching, and classification.
//
// Scan is pure with respect to the scanned tree: it reads files and builds
// a Pack in memory. Persisting the pack as the .ripp/evidence.yaml index is
// the caller's one write. Per-file problems are counted and skipped; the
// only fatal errors are a root that cannot be walked at all.

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ScanOptions bound one scan. Zero-value fields fall back to permissive
// defaults (include everything, 256 KiB ceiling).
type ScanOptions struct {
	Include      []string
	Exclude      []string
	MaxFileBytes int64
}

// Scan walks root and returns an immutable Evidence Pack. An empty tree is
// a valid, low-signal result, not an error.
func Scan(root string, opts ScanOptions) (*Pack, error) {
	if len(opts.Include) == 0 {
		opts.Include = []string{"**"}
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = 256 * 1024
	}

	log := slog.Default().With(slog.String("component", "scan"))

	pack := &Pack{
		Version:      1,
		Root:         filepath.ToSlash(root),
		CreatedAt:    time.Now().UTC(),
		Include:      opts.Include,
		Exclude:      opts.Exclude,
		MaxFileBytes: opts.MaxFileBytes,
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			pack.Skipped.Unreadable++
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			pack.Skipped.Unreadable++
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if path == root {
				return nil
			}
			if matchAny(opts.Exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchAny(opts.Exclude, rel) || !matchAny(opts.Include, rel) {
			pack.Skipped.Excluded++
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			pack.Skipped.Unreadable++
			continue
		}
		if info.Size() > opts.MaxFileBytes {
			pack.Skipped.Oversize++
			continue
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			log.Warn("unreadable file skipped", slog.String("path", rel), slog.String("error", err.Error()))
			pack.Skipped.Unreadable++
			continue
		}

		sum := sha256.Sum256(data)
		kind := Classify(rel)
		pack.Files = append(pack.Files, FileEntry{
			Path:   rel,
			SHA256: hex.EncodeToString(sum[:]),
			Size:   int64(len(data)),
			Kind:   kind,
		})

		if err := extract(pack, rel, kind, data); err != nil {
			// Extraction failure on one file never aborts the scan.
			log.Warn("extraction failed", slog.String("path", rel), slog.String("error", err.Error()))
			pack.Skipped.Unreadable++
		}
	}

	log.Info("scan complete",
		slog.Int("files", len(pack.Files)),
		slog.Int("signals", pack.SignalCount()),
		slog.Int("excluded", pack.Skipped.Excluded),
	)
	return pack, nil
}

// matchAny reports whether rel matches any pattern in patterns.
func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if matchPattern(p, rel) {
			return true
		}
	}
	return false
}

// matchPattern matches one glob against a forward-slash relative path.
//
// "**" matches everything. "prefix/**" matches the prefix directory itself
// and every path beneath it. All other patterns use filepath.Match
// semantics against the full path, then against the base name (so "*.sql"
// finds migrations in subdirectories).
func matchPattern(pattern, rel string) bool {
	if pattern == "**" {
		return true
	}
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		return rel == prefix || strings.HasPrefix(rel, prefix+"/")
	}
	if ok, _ := filepath.Match(pattern, rel); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := filepath.Match(pattern, filepath.Base(rel))
		return ok
	}
	return false
}

// sourceExtensions marks extensions treated as scannable source code.
var sourceExtensions = map[string]bool{
	".go": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".py": true, ".rb": true, ".java": true, ".kt": true, ".rs": true,
	".c": true, ".h": true, ".cpp": true, ".cs": true, ".php": true,
	".swift": true, ".scala": true,
}

// configExtensions marks extensions treated as configuration.
var configExtensions = map[string]bool{
	".yaml": true, ".yml": true, ".json": true, ".toml": true,
	".ini": true, ".env": true, ".properties": true,
}

// Classify maps a root-relative path to a FileKind.
func Classify(rel string) FileKind {
	base := filepath.Base(rel)
	ext := strings.ToLower(filepath.Ext(base))

	switch {
	case strings.HasPrefix(rel, ".github/workflows/") && (ext == ".yml" || ext == ".yaml"):
		return KindWorkflow
	case base == ".gitlab-ci.yml" || base == "Jenkinsfile":
		return KindWorkflow
	}

	if ext == ".sql" || ext == ".prisma" || ext == ".graphql" || base == "schema.rb" {
		return KindSchema
	}
	if strings.Contains(rel, "migrations/") || strings.Contains(rel, "migrate/") {
		if ext == ".sql" || sourceExtensions[ext] {
			return KindSchema
		}
	}

	if base == "go.mod" || base == "go.sum" || base == "package.json" ||
		base == "requirements.txt" || base == "Gemfile" || base == "Cargo.toml" {
		return KindConfig
	}
	if configExtensions[ext] {
		return KindConfig
	}
	if sourceExtensions[ext] {
		return KindSource
	}
	return KindOther
}
