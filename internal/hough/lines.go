package hough

import (
	"iter"
	"math"

	"github.com/ironsheep/hough-tools-mcp/internal/geometry"
)

const (
	// DefaultAngleSteps is the θ resolution used when none is given: one
	// degree per step over [0, π).
	DefaultAngleSteps = 180

	// DefaultNeighborhood is the half-width of the square non-maximum
	// suppression window in the line space.
	DefaultNeighborhood = 4
)

// LineOptions configures a line space. Zero values select the defaults.
type LineOptions struct {
	AngleSteps   int
	Convention   IndexConvention
	Neighborhood int
}

func (o LineOptions) withDefaults() (LineOptions, error) {
	if o.AngleSteps == 0 {
		o.AngleSteps = DefaultAngleSteps
	}
	if o.AngleSteps < 1 {
		return o, invalidf("angle steps must be >= 1, got %d", o.AngleSteps)
	}
	if o.Neighborhood == 0 {
		o.Neighborhood = DefaultNeighborhood
	}
	if o.Neighborhood < 0 {
		return o, invalidf("neighborhood must be >= 0, got %d", o.Neighborhood)
	}
	if o.Convention != Centered && o.Convention != CornerAnchored {
		return o, invalidf("unknown index convention %d", int(o.Convention))
	}
	return o, nil
}

// Line is a peak of a line space.
//
// Theta is in radians in [0, π). Rho is the signed distance in pixels from the
// convention's origin, with the bias already removed.
type Line struct {
	ThetaIndex int
	RhoIndex   int
	Votes      int
	Theta      float64
	Rho        float64
}

// LineSpace is the (θ, ρ) accumulator of one edge image.
type LineSpace struct {
	acc     *Accumulator
	trig    *TrigCache
	opts    LineOptions
	width   int
	height  int
	bias    int
	dropped int64
}

// BuildLineSpace votes every edge pixel into a fresh (θ, ρ) space.
//
// For each edge pixel (x, y) and each angle index t the cell
// (t, round(ρ)+bias) is incremented, where
//
//	ρ = (x-cx)·cos θt + (y-cy)·sin θt
//
// and (cx, cy) is the origin of the chosen convention. Votes whose index falls
// outside [0, 2·bias) are dropped and counted in Dropped.
func BuildLineSpace(edges *EdgeImage, opts LineOptions) (*LineSpace, error) {
	if err := checkEdges(edges); err != nil {
		return nil, err
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	bias := opts.Convention.bias(edges.Width, edges.Height)
	s := &LineSpace{
		acc:    newAccumulator(opts.AngleSteps, 2*bias),
		trig:   NewTrigCache(opts.AngleSteps, math.Pi, 1),
		opts:   opts,
		width:  edges.Width,
		height: edges.Height,
		bias:   bias,
	}
	s.vote(edges)
	return s, nil
}

// Rebuild zeroes the space and votes a new edge image of the same size into
// it.
func (s *LineSpace) Rebuild(edges *EdgeImage) error {
	if err := checkEdges(edges); err != nil {
		return err
	}
	if edges.Width != s.width || edges.Height != s.height {
		return invalidf("rebuild needs a %dx%d image, got %dx%d",
			s.width, s.height, edges.Width, edges.Height)
	}
	s.acc.Reset()
	s.dropped = 0
	s.vote(edges)
	return nil
}

func (s *LineSpace) vote(edges *EdgeImage) {
	cx, cy := s.opts.Convention.origin(s.width, s.height)
	span := 2 * s.bias
	cells := s.acc.Cells
	steps := s.opts.AngleSteps

	for y := 0; y < edges.Height; y++ {
		dy := float64(y) - cy
		for x := 0; x < edges.Width; x++ {
			if edges.Pix[y*edges.Width+x] == 0 {
				continue
			}
			dx := float64(x) - cx
			for t := 0; t < steps; t++ {
				r := int(math.Round(dx*s.trig.Cos[t]+dy*s.trig.Sin[t])) + s.bias
				if r < 0 || r >= span {
					s.dropped++
					continue
				}
				cells[t*span+r]++
			}
		}
	}
}

// Accumulator exposes the raw vote grid, shaped [AngleSteps][2·Bias].
func (s *LineSpace) Accumulator() *Accumulator { return s.acc }

// Trig returns the angle table the space was built with.
func (s *LineSpace) Trig() *TrigCache { return s.trig }

func (s *LineSpace) AngleSteps() int             { return s.opts.AngleSteps }
func (s *LineSpace) Convention() IndexConvention { return s.opts.Convention }
func (s *LineSpace) Bias() int                   { return s.bias }
func (s *LineSpace) Width() int                  { return s.width }
func (s *LineSpace) Height() int                 { return s.height }

// Dropped returns how many (pixel, angle) votes fell outside the ρ axis.
func (s *LineSpace) Dropped() int64 { return s.dropped }

// Lines returns the peaks of the space with more than threshold votes.
//
// A candidate is kept unless a cell inside its (2n+1)×(2n+1) neighborhood has
// strictly more votes, where n is the configured neighborhood; the θ axis wraps
// around and the ρ axis is clipped. Peaks are yielded in increasing θ, then
// increasing ρ. The sequence is lazy and can be ranged over any number of
// times. A negative threshold yields nothing; ExtractLines reports it as an
// error instead.
func (s *LineSpace) Lines(threshold int) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		if threshold < 0 {
			return
		}
		steps := s.opts.AngleSteps
		span := 2 * s.bias
		for t := 0; t < steps; t++ {
			for r := 0; r < span; r++ {
				v := s.acc.Cells[t*span+r]
				if int(v) <= threshold {
					continue
				}
				if !isLocalMax(s.acc, t, r, s.opts.Neighborhood) {
					continue
				}
				l := Line{
					ThetaIndex: t,
					RhoIndex:   r,
					Votes:      int(v),
					Theta:      float64(t) * s.trig.Step,
					Rho:        float64(r - s.bias),
				}
				if !yield(l) {
					return
				}
			}
		}
	}
}

// ExtractLines collects Lines(threshold) into a slice.
func ExtractLines(s *LineSpace, threshold int) ([]Line, error) {
	if s == nil {
		return nil, invalidf("line space is nil")
	}
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}
	var out []Line
	for l := range s.Lines(threshold) {
		out = append(out, l)
	}
	return out, nil
}

// Segment maps a peak of this space back to image space.
func (s *LineSpace) Segment(l Line) geometry.Segment {
	return ToSegment(l.Theta, l.Rho, s.opts.Convention, s.width, s.height)
}

// ToSegment returns the two points where the line (θ, ρ) meets the image
// border.
//
// Lines whose normal is within π/4 of the x axis (θ < π/4 or θ > 3π/4) are
// mostly vertical and are evaluated at y = 0 and y = height; all others are
// evaluated at x = 0 and x = width. Both branches divide by a value of
// magnitude at least √2/2. The points may lie outside the image for lines that
// leave through a different border.
func ToSegment(theta, rho float64, conv IndexConvention, width, height int) geometry.Segment {
	cx, cy := conv.origin(width, height)
	sin, cos := math.Sincos(theta)
	w, h := float64(width), float64(height)

	if theta < math.Pi/4 || theta > 3*math.Pi/4 {
		x0 := (rho-(0-cy)*sin)/cos + cx
		x1 := (rho-(h-cy)*sin)/cos + cx
		return geometry.NewSegment(x0, 0, x1, h)
	}
	y0 := (rho-(0-cx)*cos)/sin + cy
	y1 := (rho-(w-cx)*cos)/sin + cy
	return geometry.NewSegment(0, y0, w, y1)
}

// IsVertical reports whether θ falls in the mostly-vertical branch used by
// ToSegment.
func IsVertical(theta float64) bool {
	return theta < math.Pi/4 || theta > 3*math.Pi/4
}
