package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ripp/internal/artifact"
	"ripp/internal/evidence"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Extract evidence from the repository into .ripp/evidence.yaml",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pack, err := evidence.Scan(repoRoot, evidence.ScanOptions{
		Include:      cfg.Scan.Include,
		Exclude:      cfg.Scan.Exclude,
		MaxFileBytes: cfg.Scan.MaxFileBytes,
	})
	if err != nil {
		return err
	}

	store := artifact.NewStore(repoRoot)
	if err := store.Save(artifact.EvidenceFile, pack); err != nil {
		return err
	}

	fmt.Printf("scanned %d files (%d excluded, %d oversize, %d unreadable)\n",
		len(pack.Files), pack.Skipped.Excluded, pack.Skipped.Oversize, pack.Skipped.Unreadable)
	fmt.Printf("signals: %d dependencies, %d routes, %d auth, %d schemas, %d workflows\n",
		len(pack.Dependencies), len(pack.Routes), len(pack.AuthSignals),
		len(pack.Schemas), len(pack.Workflows))
	fmt.Printf("evidence pack written to %s\n", store.Path(artifact.EvidenceFile))
	return nil
}
