package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ripp/internal/artifact"
	"ripp/internal/confirm"
	"ripp/internal/packet"
)

var buildTitle string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile confirmed blocks into the canonical packet",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "packet title (defaults to config, then repo directory name)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := artifact.NewStore(repoRoot)
	var cset confirm.ConfirmedSet
	if err := store.Load(artifact.ConfirmedFile, &cset, "ripp confirm"); err != nil {
		return err
	}

	title := buildTitle
	if title == "" {
		title = cfg.Packet.Title
	}
	if title == "" {
		abs, err := filepath.Abs(repoRoot)
		if err != nil {
			return fmt.Errorf("resolve repo root: %w", err)
		}
		title = filepath.Base(abs)
	}

	p, err := packet.Compile(cset.Blocks, packet.Metadata{
		ID:    "pkt-" + uuid.NewString(),
		Title: title,
	})
	if err != nil {
		return err
	}

	if err := store.Save(artifact.PacketFile, p); err != nil {
		return err
	}
	doc, err := packet.RenderDocument(p)
	if err != nil {
		return err
	}
	if err := store.SaveRaw(artifact.DocumentFile, doc); err != nil {
		return err
	}

	fmt.Printf("packet %s compiled at conformance level %d from %d block(s)\n", p.ID, p.Level, len(cset.Blocks))
	fmt.Printf("structured artifact: %s\n", store.Path(artifact.PacketFile))
	fmt.Printf("document rendering:  %s\n", store.Path(artifact.DocumentFile))
	return nil
}
