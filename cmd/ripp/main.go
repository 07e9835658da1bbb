// Command ripp turns an undocumented repository into a reviewable,
// machine-validated specification packet through a four-stage pipeline:
// scan (evidence), infer (candidates), confirm (human adjudication), and
// build (canonical packet).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ripp/internal/config"
	"ripp/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// repoRoot is the repository the pipeline operates on.
var repoRoot string

var rootCmd = &cobra.Command{
	Use:   "ripp",
	Short: "Evidence-first specification packets from existing code",
	Long: "ripp extracts evidence from a repository, proposes specification\n" +
		"candidates, routes every candidate through human confirmation, and\n" +
		"compiles the confirmed blocks into a canonical packet.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&repoRoot, "repo", "C", ".", "repository root to operate on")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.Version = version
}

// loadConfig resolves configuration for the repo root and initializes
// logging from it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		return config.Config{}, err
	}
	logging.Init(parseLevel(cfg.Log.Level), cfg.Log.Format)
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
