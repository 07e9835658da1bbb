package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ripp/internal/artifact"
	"ripp/internal/checklist"
	"ripp/internal/confirm"
	"ripp/internal/infer"
)

var (
	confirmAutoThreshold float64
	confirmInteractive   bool
	confirmChecklist     bool
	confirmFromChecklist bool
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Adjudicate candidates into confirmed and rejected blocks",
	Long: "Confirm candidates through one of three modes:\n" +
		"  --auto-approve=T    confirm every candidate with confidence >= T\n" +
		"  --interactive       review candidates one at a time (default)\n" +
		"  --checklist         write .ripp/checklist.md for offline review\n" +
		"  --from-checklist    parse the edited checklist back into blocks",
	Args: cobra.NoArgs,
	RunE: runConfirm,
}

func init() {
	confirmCmd.Flags().Float64Var(&confirmAutoThreshold, "auto-approve", -1, "auto-approval confidence threshold")
	confirmCmd.Flags().BoolVar(&confirmInteractive, "interactive", false, "review candidates interactively")
	confirmCmd.Flags().BoolVar(&confirmChecklist, "checklist", false, "render the offline checklist artifact")
	confirmCmd.Flags().BoolVar(&confirmFromChecklist, "from-checklist", false, "parse the edited checklist artifact")
}

func runConfirm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := artifact.NewStore(repoRoot)
	actor := cfg.Confirm.Actor

	modes := 0
	for _, on := range []bool{confirmAutoThreshold >= 0, confirmInteractive, confirmChecklist, confirmFromChecklist} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("pick exactly one of --auto-approve, --interactive, --checklist, --from-checklist")
	}

	if confirmFromChecklist {
		return runFromChecklist(store, actor)
	}

	cands, err := loadCandidates(store)
	if err != nil {
		return err
	}

	switch {
	case confirmAutoThreshold >= 0:
		return runAutoApprove(store, cands, confirmAutoThreshold, actor)
	case confirmChecklist:
		return runRenderChecklist(store, cands)
	default:
		return runInteractiveConfirm(store, cands, actor)
	}
}

// loadCandidates reads the candidate artifact and re-checks the Candidate
// invariants. The artifact may have been hand-edited since inference;
// invalid candidates never reach confirmation.
func loadCandidates(store *artifact.Store) ([]infer.Candidate, error) {
	var set infer.CandidateSet
	if err := store.Load(artifact.CandidatesFile, &set, "ripp infer"); err != nil {
		return nil, err
	}
	for i := range set.Candidates {
		if err := set.Candidates[i].Validate(); err != nil {
			return nil, fmt.Errorf("candidate artifact is invalid: %w", err)
		}
	}
	return set.Candidates, nil
}

func saveOutcome(store *artifact.Store, mode string, confirmed []confirm.ConfirmedBlock, rejected []confirm.RejectedBlock) error {
	now := time.Now().UTC()
	cset := confirm.ConfirmedSet{Version: 1, Mode: mode, CreatedAt: now, Blocks: confirmed}
	if err := store.Save(artifact.ConfirmedFile, cset); err != nil {
		return err
	}
	if len(rejected) > 0 {
		rset := confirm.RejectedSet{Version: 1, Mode: mode, CreatedAt: now, Blocks: rejected}
		if err := store.Save(artifact.RejectedFile, rset); err != nil {
			return err
		}
	}
	fmt.Printf("confirmed %d, rejected %d\n", len(confirmed), len(rejected))
	fmt.Printf("confirmed blocks written to %s\n", store.Path(artifact.ConfirmedFile))
	return nil
}

func runAutoApprove(store *artifact.Store, cands []infer.Candidate, threshold float64, actor string) error {
	confirmed, rejected, err := confirm.AutoApprove(cands, threshold, actor, time.Now().UTC())
	if err != nil {
		return err
	}
	return saveOutcome(store, "auto-approve", confirmed, rejected)
}

func runInteractiveConfirm(store *artifact.Store, cands []infer.Candidate, actor string) error {
	confirmed, rejected, cancelled, err := confirm.RunInteractive(cands, actor)
	if err != nil {
		return err
	}
	if cancelled {
		fmt.Println("review cancelled; nothing written")
		return nil
	}
	if len(confirmed) == 0 && len(rejected) == 0 {
		fmt.Println("all candidates skipped; nothing written")
		return nil
	}
	return saveOutcome(store, "interactive", confirmed, rejected)
}

func runRenderChecklist(store *artifact.Store, cands []infer.Candidate) error {
	doc, err := checklist.Render(cands)
	if err != nil {
		return err
	}
	// Rendering the checklist changes no confirmation state; confirmation
	// happens only when the edited artifact is parsed back.
	if err := store.SaveRaw(artifact.ChecklistFile, []byte(doc)); err != nil {
		return err
	}
	fmt.Printf("checklist written to %s\n", store.Path(artifact.ChecklistFile))
	fmt.Println("check the boxes you approve, then run: ripp confirm --from-checklist")
	return nil
}

func runFromChecklist(store *artifact.Store, actor string) error {
	raw, err := store.LoadRaw(artifact.ChecklistFile, "ripp confirm --checklist")
	if err != nil {
		return err
	}
	res, err := checklist.Parse(string(raw), actor, time.Now().UTC())
	if err != nil {
		return err
	}
	for _, r := range res.Rejected {
		fmt.Printf("rejected %s: %s\n", r.CandidateID, r.Reason)
	}
	if res.Unchecked > 0 {
		fmt.Printf("%d item(s) left unchecked (not persisted)\n", res.Unchecked)
	}
	return saveOutcome(store, "checklist", res.Confirmed, res.Rejected)
}
