package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	in := sample{Name: "evidence", Count: 42}

	if err := store.Save(EvidenceFile, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var out sample
	if err := store.Load(EvidenceFile, &out, "ripp scan"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestStoreSaveReplacesWholeFile(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save(PacketFile, sample{Name: "first", Count: 1}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := store.Save(PacketFile, sample{Name: "second", Count: 2}); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	var out sample
	if err := store.Load(PacketFile, &out, "ripp build"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Name != "second" || out.Count != 2 {
		t.Errorf("after overwrite = %+v, want second/2", out)
	}
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Save(CandidatesFile, sample{Name: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file %q left behind", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("artifact dir has %d entries, want 1", len(entries))
	}
}

func TestStoreLoadMissingNamesProducer(t *testing.T) {
	store := NewStore(t.TempDir())
	var out sample
	err := store.Load(ConfirmedFile, &out, "ripp confirm")
	if err == nil {
		t.Fatal("Load of missing artifact succeeded")
	}
	if !errors.Is(err, ErrMissing) {
		t.Errorf("error %v does not wrap ErrMissing", err)
	}
	if !strings.Contains(err.Error(), "ripp confirm") {
		t.Errorf("error %q does not name the producing command", err)
	}
}

func TestStoreLoadRejectsMalformedYAML(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	if err := os.MkdirAll(store.Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(EvidenceFile), []byte("{{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out sample
	if err := store.Load(EvidenceFile, &out, "ripp scan"); err == nil {
		t.Error("Load of malformed artifact succeeded")
	}
}

func TestStoreExists(t *testing.T) {
	store := NewStore(t.TempDir())
	if store.Exists(ChecklistFile) {
		t.Error("Exists = true before any write")
	}
	if err := store.SaveRaw(ChecklistFile, []byte("# checklist\n")); err != nil {
		t.Fatalf("SaveRaw: %v", err)
	}
	if !store.Exists(ChecklistFile) {
		t.Error("Exists = false after write")
	}
}

func TestStorePathUnderRippDir(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	want := filepath.Join(root, ".ripp", DocumentFile)
	if got := store.Path(DocumentFile); got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
}
