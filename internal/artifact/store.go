// Package artifact manages the .ripp/ directory of pipeline artifacts.
//
// Every artifact is a whole-file write: the store marshals to a temp file in
// the same directory and renames it into place, so readers never observe a
// partially written artifact. Artifacts from earlier stages are read-only to
// later stages; a new run supersedes a file by rewriting it whole.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Well-known artifact file names under .ripp/.
const (
	EvidenceFile   = "evidence.yaml"
	CandidatesFile = "candidates.yaml"
	ConfirmedFile  = "confirmed.yaml"
	RejectedFile   = "rejected.yaml"
	ChecklistFile  = "checklist.md"
	PacketFile     = "packet.yaml"
	DocumentFile   = "packet.md"
)

// ErrMissing wraps artifact-not-found conditions so callers can attach the
// command that produces the missing artifact.
var ErrMissing = errors.New("artifact missing")

// Store reads and writes artifacts under <root>/.ripp/.
type Store struct {
	root string
}

// NewStore returns a store rooted at the repo root. The .ripp directory is
// created on first write, not here.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Dir returns the .ripp directory path.
func (s *Store) Dir() string { return filepath.Join(s.root, ".ripp") }

// Path returns the absolute path of a named artifact.
func (s *Store) Path(name string) string { return filepath.Join(s.Dir(), name) }

// Exists reports whether a named artifact is present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Save marshals v to YAML and writes it atomically to the named artifact.
// The whole file is replaced; there is no partial overwrite.
func (s *Store) Save(name string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return s.SaveRaw(name, data)
}

// SaveRaw writes pre-serialized bytes atomically to the named artifact.
func (s *Store) SaveRaw(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.Dir(), err)
	}
	tmp, err := os.CreateTemp(s.Dir(), name+".tmp-*")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	if err := os.Chmod(s.Path(name), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	return nil
}

// Load reads the named artifact and unmarshals it into v.
// producedBy names the command that creates the artifact; it is included in
// the missing-artifact error so the user knows what to run first.
func (s *Store) Load(name string, v any, producedBy string) error {
	data, err := s.LoadRaw(name, producedBy)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", s.Path(name), err)
	}
	return nil
}

// LoadRaw reads the named artifact's bytes.
func (s *Store) LoadRaw(name string, producedBy string) ([]byte, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s (run %q first)", ErrMissing, path, producedBy)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
