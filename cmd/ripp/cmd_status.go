package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ripp/internal/artifact"
	"ripp/internal/evidence"
	"ripp/internal/frontmatter"
	"ripp/internal/packet"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report pipeline artifact state and evidence staleness",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	store := artifact.NewStore(repoRoot)

	stages := []struct {
		file string
		desc string
	}{
		{artifact.EvidenceFile, "evidence pack"},
		{artifact.CandidatesFile, "candidate set"},
		{artifact.ConfirmedFile, "confirmed blocks"},
		{artifact.RejectedFile, "rejected blocks"},
		{artifact.ChecklistFile, "checklist"},
		{artifact.PacketFile, "canonical packet"},
		{artifact.DocumentFile, "packet document"},
	}
	for _, s := range stages {
		state := "missing"
		if store.Exists(s.file) {
			state = "present"
		}
		fmt.Printf("  %-16s %-18s %s\n", s.file, s.desc, state)
	}

	if store.Exists(artifact.DocumentFile) {
		raw, err := store.LoadRaw(artifact.DocumentFile, "ripp build")
		if err != nil {
			return err
		}
		var meta packet.DocumentMeta
		if _, err := frontmatter.Decode(raw, &meta); err != nil {
			fmt.Printf("packet document is unreadable: %v\n", err)
		} else {
			fmt.Printf("packet %s: status %s, conformance level %d\n", meta.ID, meta.Status, meta.Level)
		}
	}

	if !store.Exists(artifact.EvidenceFile) {
		return nil
	}
	var pack evidence.Pack
	if err := store.Load(artifact.EvidenceFile, &pack, "ripp scan"); err != nil {
		return err
	}
	changed, missing := staleness(repoRoot, &pack)
	if changed == 0 && missing == 0 {
		fmt.Printf("evidence pack is fresh (%d files)\n", len(pack.Files))
		return nil
	}
	fmt.Printf("evidence pack is stale: %d changed, %d missing; re-run ripp scan\n", changed, missing)
	return nil
}

// staleness re-hashes every file in the pack and counts drift.
func staleness(root string, pack *evidence.Pack) (changed, missing int) {
	for _, f := range pack.Files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f.Path)))
		if err != nil {
			missing++
			continue
		}
		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != f.SHA256 {
			changed++
		}
	}
	return changed, missing
}
