package detection

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

// Frame is a camera frame prepared for detection: its edge image and the
// resolved region of interest, in frame coordinates.
type Frame struct {
	Image    image.Image
	Edges    *hough.EdgeImage
	Region   image.Rectangle
	Portrait bool
	Params   config.Params
}

// Prepare validates p and extracts the edges of img.
func Prepare(img image.Image, p config.Params) (*Frame, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image is nil", hough.ErrInvalidParameter)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	edges, err := imaging.ExtractEdges(img, p.EdgeOptions())
	if err != nil {
		return nil, fmt.Errorf("extracting edges: %w", err)
	}
	b := img.Bounds()
	return &Frame{
		Image:    img,
		Edges:    edges.Edges,
		Region:   edges.Region,
		Portrait: p.Portrait(b.Dx(), b.Dy()),
		Params:   p,
	}, nil
}

// Result is the outcome of one detection run. Exactly one of Lines,
// Segments, Circles and Lanes is set, according to Mode.
type Result struct {
	Mode        config.Mode `json:"mode"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Orientation string      `json:"orientation"`
	Region      Bounds      `json:"region"`
	EdgeMethod  string      `json:"edge_method"`

	Lines    *LinesResult    `json:"lines,omitempty"`
	Segments *SegmentsResult `json:"segments,omitempty"`
	Circles  *CirclesResult  `json:"circles,omitempty"`
	Lanes    *LanesResult    `json:"lanes,omitempty"`
}

// Count returns the number of detections in the result. A lanes result
// counts the lane sides found.
func (r *Result) Count() int {
	switch {
	case r.Lines != nil:
		return r.Lines.Count
	case r.Segments != nil:
		return r.Segments.Count
	case r.Circles != nil:
		return r.Circles.Count
	case r.Lanes != nil:
		n := 0
		if r.Lanes.Left != nil {
			n++
		}
		if r.Lanes.Right != nil {
			n++
		}
		return n
	}
	return 0
}

// Detect runs the detection selected by the frame's mode and samples the
// frame color under each detection.
func (f *Frame) Detect() (*Result, error) {
	p := f.Params
	res := &Result{
		Mode:        p.Mode,
		Width:       f.Edges.Width,
		Height:      f.Edges.Height,
		Orientation: string(config.OrientationLandscape),
		Region:      BoundsOf(f.Region),
		EdgeMethod:  p.EdgeMethod,
	}
	// Detection uses the orientation resolved for the whole frame.
	if f.Portrait {
		res.Orientation = string(config.OrientationPortrait)
		p.Orientation = config.OrientationPortrait
	} else {
		p.Orientation = config.OrientationLandscape
	}

	var err error
	switch p.Mode {
	case config.ModeLines:
		res.Lines, err = DetectLines(f.Edges, p)
		if err == nil {
			for i := range res.Lines.Lines {
				l := &res.Lines.Lines[i]
				l.Color = f.colorAlong(l.Start, l.End)
			}
		}
	case config.ModeSegments:
		res.Segments, err = DetectSegments(f.Edges, p)
		if err == nil {
			for i := range res.Segments.Segments {
				s := &res.Segments.Segments[i]
				s.Color = sampleColorHex(f.Image, (s.Start.X+s.End.X)/2, (s.Start.Y+s.End.Y)/2)
			}
		}
	case config.ModeCircles:
		res.Circles, err = DetectCircles(f.Edges, p)
		if err == nil {
			for i := range res.Circles.Circles {
				c := &res.Circles.Circles[i]
				c.FillColor = sampleColorHex(f.Image, c.Center.X, c.Center.Y)
			}
		}
	case config.ModeLanes:
		res.Lanes, err = DetectLanes(f.Edges, p)
	default:
		err = fmt.Errorf("unknown mode %q", p.Mode)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// colorAlong samples the frame at the midpoint of the part of the line that
// lies inside the frame.
func (f *Frame) colorAlong(a, b PointF) string {
	w, h := float64(f.Edges.Width), float64(f.Edges.Height)
	cx := (math.Max(0, math.Min(a.X, w-1)) + math.Max(0, math.Min(b.X, w-1))) / 2
	cy := (math.Max(0, math.Min(a.Y, h-1)) + math.Max(0, math.Min(b.Y, h-1))) / 2
	return sampleColorHex(f.Image, int(math.Round(cx)), int(math.Round(cy)))
}

// Run prepares img and runs the detection selected by p.Mode.
func Run(img image.Image, p config.Params) (*Result, *Frame, error) {
	f, err := Prepare(img, p)
	if err != nil {
		return nil, nil, err
	}
	res, err := f.Detect()
	if err != nil {
		return nil, f, err
	}
	return res, f, nil
}

// LineSpace builds the line space of the frame's edges after checking the
// work budget.
func (f *Frame) LineSpace() (*hough.LineSpace, error) {
	opts, err := f.Params.LineOptions()
	if err != nil {
		return nil, err
	}
	if err := checkBudget(f.Edges.Count(), f.Params.AngleSteps, 1, f.Params.MaxVotes); err != nil {
		return nil, err
	}
	return hough.BuildLineSpace(f.Edges, opts)
}

// CircleSpace builds the circle space of the frame's edges after checking the
// work budget: 2D when MinRadius equals MaxRadius, else 3D.
func (f *Frame) CircleSpace() (*hough.CircleSpace, error) {
	p := f.Params
	opts, err := p.CircleOptions()
	if err != nil {
		return nil, err
	}
	layers := len(hough.RadiusLayers(p.MinRadius, p.MaxRadius, p.StepRadius))
	if err := checkBudget(f.Edges.Count(), p.AngleSteps, max(layers, 1), p.MaxVotes); err != nil {
		return nil, err
	}
	if p.MinRadius == p.MaxRadius {
		return hough.BuildCircleSpace(f.Edges, p.MinRadius, opts)
	}
	return hough.BuildCircleSpace3D(f.Edges, p.MinRadius, p.MaxRadius, p.StepRadius, opts)
}
