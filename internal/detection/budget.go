package detection

import (
	"errors"
	"fmt"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// ErrWorkBudget is returned when a run would cast more votes than
// Params.MaxVotes allows.
var ErrWorkBudget = errors.New("work budget exceeded")

// checkBudget fails when edgePixels × angleSteps × layers exceeds maxVotes.
// A maxVotes of 0 disables the check.
func checkBudget(edgePixels, angleSteps, layers int, maxVotes int64) error {
	if maxVotes <= 0 {
		return nil
	}
	votes := int64(edgePixels) * int64(angleSteps) * int64(layers)
	if votes > maxVotes {
		return fmt.Errorf("%w: %d edge pixels × %d angles × %d radii = %d votes, limit %d",
			ErrWorkBudget, edgePixels, angleSteps, layers, votes, maxVotes)
	}
	return nil
}

func edgeCount(edges *hough.EdgeImage) (int, error) {
	if edges == nil {
		return 0, fmt.Errorf("%w: edge image is nil", hough.ErrInvalidParameter)
	}
	return edges.Count(), nil
}
