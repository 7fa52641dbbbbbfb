package detection

import (
	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/geometry"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/lane"
)

// LaneLine is one side of the lane, from the bottom of the frame toward the
// horizon.
type LaneLine struct {
	Start PointF `json:"start"`
	End   PointF `json:"end"`
}

// LanesResult contains the lane estimate for one frame.
type LanesResult struct {
	Left    *LaneLine `json:"left,omitempty"`
	Right   *LaneLine `json:"right,omitempty"`
	Horizon *PointF   `json:"horizon,omitempty"`

	// Lines are the candidates the lanes were selected from, in (θ, ρ)
	// order.
	Lines []Line `json:"lines"`

	Threshold  int   `json:"threshold"`
	EdgePixels int   `json:"edge_pixels"`
	Dropped    int64 `json:"dropped_votes"`

	lanes lane.Lanes
}

// DetectLanes detects lines with the lanes-mode threshold and selects the
// innermost left and right lane among them. The horizon is the crossing of
// the two lanes when it falls strictly inside the frame.
func DetectLanes(edges *hough.EdgeImage, p config.Params) (*LanesResult, error) {
	p.Mode = config.ModeLanes
	opts, err := p.LineOptions()
	if err != nil {
		return nil, err
	}
	lines, err := detectLines(edges, p, opts)
	if err != nil {
		return nil, err
	}

	// Selection depends on candidate order, so it runs over the peaks in
	// extraction order rather than the vote-sorted Lines.
	found := lane.Estimate(lines.peaks, opts.Convention, edges.Width, edges.Height)
	res := &LanesResult{
		Lines:      lines.ordered,
		Threshold:  lines.Threshold,
		EdgePixels: lines.EdgePixels,
		Dropped:    lines.Dropped,
		lanes:      found,
	}
	if found.HasLeft {
		res.Left = laneLine(found.Left)
	}
	if found.HasRight {
		res.Right = laneLine(found.Right)
	}
	if found.HasHorizon {
		res.Horizon = &PointF{X: round2(found.Horizon.X), Y: round2(found.Horizon.Y)}
	}
	return res, nil
}

// Segments returns the lane segments to draw: each side up to the horizon
// when there is one, otherwise each side found, border to border.
func (r *LanesResult) Segments() []geometry.Segment {
	return r.lanes.DrawSegments()
}

func laneLine(s geometry.Segment) *LaneLine {
	return &LaneLine{
		Start: PointF{X: round2(s.Start.X), Y: round2(s.Start.Y)},
		End:   PointF{X: round2(s.End.X), Y: round2(s.End.Y)},
	}
}
