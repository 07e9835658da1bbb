package confirm

// auto.go: bulk auto-approval by confidence threshold.

import (
	"fmt"
	"time"

	"ripp/internal/infer"
)

// AutoApprove confirms every candidate whose confidence meets threshold and
// rejects the rest, in stable input order. It fails loudly, before anything
// is written, when zero candidates clear the threshold.
func AutoApprove(cands []infer.Candidate, threshold float64, actor string, now time.Time) ([]ConfirmedBlock, []RejectedBlock, error) {
	var confirmed []ConfirmedBlock
	var rejected []RejectedBlock
	highest := 0.0

	for _, c := range cands {
		if c.Confidence > highest {
			highest = c.Confidence
		}
		if c.Confidence >= threshold {
			confirmed = append(confirmed, NewConfirmed(c, actor, ReasonAutoApproved, now))
		} else {
			reason := fmt.Sprintf("confidence %.2f below auto-approval threshold %.2f", c.Confidence, threshold)
			rejected = append(rejected, NewRejected(c, actor, reason, now))
		}
	}

	if len(confirmed) == 0 {
		return nil, nil, fmt.Errorf(
			"no candidates met the auto-approval threshold %.2f (highest confidence was %.2f); lower the threshold or review interactively",
			threshold, highest)
	}
	return confirmed, rejected, nil
}
