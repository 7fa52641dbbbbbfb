package detection

import (
	"image"
	"math"
	"slices"

	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/geometry"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// traceTolerance is how far, in pixels, an edge pixel may lie from a line and
// still be traced as part of one of its segments.
const traceTolerance = 1.5

// Line represents a detected infinite line, clipped to the frame.
type Line struct {
	// Start and End are where the line meets the frame border. For mostly
	// vertical lines Start is on the top border, otherwise on the left.
	Start PointF `json:"start"`
	End   PointF `json:"end"`

	// ThetaDegrees is the angle of the line's normal, in [0, 180).
	ThetaDegrees float64 `json:"theta_degrees"`
	ThetaRadians float64 `json:"theta_radians"`

	// Rho is the signed distance from the convention's origin.
	Rho float64 `json:"rho"`

	Votes    int  `json:"votes"`
	Vertical bool `json:"vertical"`

	// Color is the frame color at the visible midpoint. Only set when the
	// frame is available.
	Color string `json:"color,omitempty"`
}

// LinesResult contains the lines detected in an edge image.
type LinesResult struct {
	// Lines is sorted by votes, highest first. Equal votes keep (θ, ρ) order.
	Lines []Line `json:"lines"`
	Count int    `json:"count"`

	Convention string `json:"convention"`
	Threshold  int    `json:"threshold"`
	EdgePixels int    `json:"edge_pixels"`
	Dropped    int64  `json:"dropped_votes"`

	peaks   []hough.Line
	ordered []Line
}

// DetectLines finds straight lines in an edge image with the (θ, ρ)
// transform.
//
// Parameters:
//   - edges: Binary edge image.
//   - p: Validated parameters; the line, orientation and budget fields are
//     used.
//
// Returns:
//   - *LinesResult: Detected lines, strongest first.
//   - error: Wraps hough.ErrInvalidParameter or ErrWorkBudget.
func DetectLines(edges *hough.EdgeImage, p config.Params) (*LinesResult, error) {
	opts, err := p.LineOptions()
	if err != nil {
		return nil, err
	}
	return detectLines(edges, p, opts)
}

func detectLines(edges *hough.EdgeImage, p config.Params, opts hough.LineOptions) (*LinesResult, error) {
	pixels, err := edgeCount(edges)
	if err != nil {
		return nil, err
	}
	if err := checkBudget(pixels, p.AngleSteps, 1, p.MaxVotes); err != nil {
		return nil, err
	}
	space, err := hough.BuildLineSpace(edges, opts)
	if err != nil {
		return nil, err
	}
	threshold := p.EffectiveLineThreshold(p.Portrait(edges.Width, edges.Height))
	peaks, err := hough.ExtractLines(space, threshold)
	if err != nil {
		return nil, err
	}

	res := &LinesResult{
		ordered:    make([]Line, 0, len(peaks)),
		Convention: space.Convention().String(),
		Threshold:  threshold,
		EdgePixels: pixels,
		Dropped:    space.Dropped(),
		peaks:      peaks,
	}
	for _, pk := range peaks {
		seg := space.Segment(pk)
		res.ordered = append(res.ordered, Line{
			Start:        PointF{X: round2(seg.Start.X), Y: round2(seg.Start.Y)},
			End:          PointF{X: round2(seg.End.X), Y: round2(seg.End.Y)},
			ThetaDegrees: math.Round(pk.Theta*180/math.Pi*10) / 10,
			ThetaRadians: pk.Theta,
			Rho:          pk.Rho,
			Votes:        pk.Votes,
			Vertical:     hough.IsVertical(pk.Theta),
		})
	}
	res.Lines = slices.Clone(res.ordered)
	slices.SortStableFunc(res.Lines, func(a, b Line) int { return b.Votes - a.Votes })
	res.Count = len(res.Lines)
	return res, nil
}

// Segment is a finite run of edge pixels along a detected line.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`

	Length       float64 `json:"length"`
	AngleDegrees float64 `json:"angle_degrees"`

	// Pixels is the number of edge pixels traced into the segment.
	Pixels int `json:"pixels"`

	// Votes is the vote count of the line the segment was traced along.
	Votes int `json:"votes"`

	// Color is the frame color at the segment midpoint. Only set when the
	// frame is available.
	Color string `json:"color,omitempty"`
}

// SegmentsResult contains the segments detected in an edge image.
type SegmentsResult struct {
	Segments []Segment `json:"segments"`
	Count    int       `json:"count"`

	// Lines is the number of line peaks that were traced.
	Lines      int   `json:"lines"`
	Threshold  int   `json:"threshold"`
	EdgePixels int   `json:"edge_pixels"`
	Dropped    int64 `json:"dropped_votes"`
}

// DetectSegments finds line segments: every line peak is traced along the
// edge pixels within traceTolerance of it, the traced pixels are split where
// consecutive pixels are more than MaxLineGap apart, and runs at least
// MinLineLength long become segments.
//
// Lines are traced strongest first and a pixel belongs to at most one
// segment, so neighbouring peaks of the same physical line do not produce
// duplicates. The space is always built with the corner-anchored convention.
//
// Segments are ordered by the vote count of their line, then along the line.
func DetectSegments(edges *hough.EdgeImage, p config.Params) (*SegmentsResult, error) {
	opts, err := p.LineOptions()
	if err != nil {
		return nil, err
	}
	opts.Convention = hough.CornerAnchored

	lines, err := detectLines(edges, p, opts)
	if err != nil {
		return nil, err
	}

	peaks := slices.Clone(lines.peaks)
	slices.SortStableFunc(peaks, func(a, b hough.Line) int { return b.Votes - a.Votes })

	res := &SegmentsResult{
		Segments:   []Segment{},
		Lines:      len(peaks),
		Threshold:  lines.Threshold,
		EdgePixels: lines.EdgePixels,
		Dropped:    lines.Dropped,
	}
	points := edges.Points()
	used := make([]bool, len(points))
	for _, pk := range peaks {
		for _, run := range traceRuns(points, used, pk, p.MaxLineGap) {
			first, last := points[run[0]], points[run[len(run)-1]]
			s := geometry.NewSegment(float64(first.X), float64(first.Y), float64(last.X), float64(last.Y))
			if s.Length() < float64(p.MinLineLength) {
				continue
			}
			for _, i := range run {
				used[i] = true
			}
			start, end := Point{X: first.X, Y: first.Y}, Point{X: last.X, Y: last.Y}
			if end.X < start.X || (end.X == start.X && end.Y < start.Y) {
				start, end = end, start
			}
			res.Segments = append(res.Segments, Segment{
				Start:        start,
				End:          end,
				Length:       math.Round(s.Length()*10) / 10,
				AngleDegrees: math.Round(math.Atan2(float64(end.Y-start.Y), float64(end.X-start.X))*180/math.Pi*10) / 10,
				Pixels:       len(run),
				Votes:        pk.Votes,
			})
		}
	}
	res.Count = len(res.Segments)
	return res, nil
}

// traceRuns collects the unused points within traceTolerance of the
// corner-anchored line l, orders them along the line and splits them where
// the gap between neighbours exceeds maxGap. Each run holds indexes into
// points.
func traceRuns(points []image.Point, used []bool, l hough.Line, maxGap int) [][]int {
	sin, cos := math.Sincos(l.Theta)

	type traced struct {
		idx int
		t   float64
	}
	var on []traced
	for i, pt := range points {
		if used[i] {
			continue
		}
		x, y := float64(pt.X), float64(pt.Y)
		if math.Abs(x*cos+y*sin-l.Rho) <= traceTolerance {
			on = append(on, traced{idx: i, t: y*cos - x*sin})
		}
	}
	if len(on) == 0 {
		return nil
	}
	slices.SortStableFunc(on, func(a, b traced) int {
		switch {
		case a.t < b.t:
			return -1
		case a.t > b.t:
			return 1
		}
		return 0
	})

	var runs [][]int
	run := []int{on[0].idx}
	for i := 1; i < len(on); i++ {
		if on[i].t-on[i-1].t > float64(maxGap) {
			runs = append(runs, run)
			run = nil
		}
		run = append(run, on[i].idx)
	}
	return append(runs, run)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
