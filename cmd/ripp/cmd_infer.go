package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ripp/internal/artifact"
	"ripp/internal/config"
	"ripp/internal/evidence"
	"ripp/internal/infer"
)

var inferTargetLevel int

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Propose specification candidates from the evidence pack",
	Args:  cobra.NoArgs,
	RunE:  runInfer,
}

func init() {
	inferCmd.Flags().IntVar(&inferTargetLevel, "level", 2, "target conformance level (1..3)")
}

func runInfer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := artifact.NewStore(repoRoot)
	var pack evidence.Pack
	if err := store.Load(artifact.EvidenceFile, &pack, "ripp scan"); err != nil {
		return err
	}

	provider, err := selectProvider(cfg)
	if err != nil {
		return err
	}

	engine := infer.NewEngine(provider, cfg.Inference.MinConfidence)
	set, err := engine.Infer(cmd.Context(), &pack, infer.Options{TargetLevel: inferTargetLevel})
	if err != nil {
		return err
	}

	if err := store.Save(artifact.CandidatesFile, set); err != nil {
		return err
	}

	fmt.Printf("provider %q proposed %d candidate(s)\n", set.Provider, len(set.Candidates))
	for _, c := range set.Candidates {
		fmt.Printf("  %s: confidence %.2f, %d citations, %d sections\n",
			c.ID, c.Confidence, len(c.Citations), len(c.Sections))
	}
	fmt.Printf("candidates written to %s\n", store.Path(artifact.CandidatesFile))
	return nil
}

// selectProvider applies the network policy gates. Both the repo-level and
// the session-level switch must be on, and credentials present, before the
// network-backed provider runs; otherwise heuristic is the only path.
func selectProvider(cfg config.Config) (infer.Provider, error) {
	allowed, reason := config.NetworkInferenceAllowed(cfg, os.LookupEnv)

	switch cfg.Inference.Provider {
	case "heuristic":
		return infer.NewHeuristicProvider(), nil
	case "openai":
		if !allowed {
			return nil, fmt.Errorf("network inference requested but not permitted: %s", reason)
		}
		key, _ := os.LookupEnv("OPENAI_API_KEY")
		return infer.NewOpenAIProvider(key, cfg.Inference.Model,
			cfg.Inference.MaxRetries, time.Duration(cfg.Inference.TimeoutSeconds)*time.Second), nil
	case "auto", "":
		if allowed {
			key, _ := os.LookupEnv("OPENAI_API_KEY")
			return infer.NewOpenAIProvider(key, cfg.Inference.Model,
				cfg.Inference.MaxRetries, time.Duration(cfg.Inference.TimeoutSeconds)*time.Second), nil
		}
		slog.Info("using heuristic provider", slog.String("reason", reason))
		return infer.NewHeuristicProvider(), nil
	default:
		return nil, fmt.Errorf("unknown inference provider %q (want auto, openai, or heuristic)", cfg.Inference.Provider)
	}
}
