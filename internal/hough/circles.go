package hough

import (
	"math"
)

// CircleOptions configures a circle space. Zero values select the defaults.
type CircleOptions struct {
	AngleSteps int
	Bounds     VoteBoundsRule
}

func (o CircleOptions) withDefaults() (CircleOptions, error) {
	if o.AngleSteps == 0 {
		o.AngleSteps = DefaultAngleSteps
	}
	if o.AngleSteps < 1 {
		return o, invalidf("angle steps must be >= 1, got %d", o.AngleSteps)
	}
	if o.Bounds != BoundsUpperLeft && o.Bounds != BoundsFullImage {
		return o, invalidf("unknown vote bounds rule %d", int(o.Bounds))
	}
	return o, nil
}

// Circle is a detected circle center with its radius and vote count.
type Circle struct {
	X      int
	Y      int
	Radius int
	Votes  int
}

// CircleSpace is the center accumulator for one or more radii.
//
// A space built by BuildCircleSpace has a 2D [W][H] accumulator; one built by
// BuildCircleSpace3D has a 3D [W][H][len(Radii)] accumulator.
type CircleSpace struct {
	acc     *Accumulator
	radii   []int
	opts    CircleOptions
	width   int
	height  int
	dropped int64
}

// BuildCircleSpace votes every edge pixel into an (a, b) center space for a
// single known radius.
//
// For each edge pixel (x, y) and angle index t over a full turn, the center
// a = round(x - r·cos θt), b = round(y - r·sin θt) receives a vote if the
// bounds rule accepts it.
func BuildCircleSpace(edges *EdgeImage, radius int, opts CircleOptions) (*CircleSpace, error) {
	if err := checkEdges(edges); err != nil {
		return nil, err
	}
	if radius < 1 {
		return nil, invalidf("radius must be >= 1, got %d", radius)
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	s := &CircleSpace{
		acc:    newAccumulator(edges.Width, edges.Height),
		radii:  []int{radius},
		opts:   opts,
		width:  edges.Width,
		height: edges.Height,
	}
	s.vote(edges)
	return s, nil
}

// BuildCircleSpace3D votes into an (a, b, r) space with one layer per radius
// from minRadius to maxRadius inclusive, stepping stepRadius. Each layer uses
// the same vote rule as BuildCircleSpace.
func BuildCircleSpace3D(edges *EdgeImage, minRadius, maxRadius, stepRadius int, opts CircleOptions) (*CircleSpace, error) {
	if err := checkEdges(edges); err != nil {
		return nil, err
	}
	if minRadius < 1 {
		return nil, invalidf("min radius must be >= 1, got %d", minRadius)
	}
	if minRadius > maxRadius {
		return nil, invalidf("min radius %d exceeds max radius %d", minRadius, maxRadius)
	}
	if stepRadius < 1 {
		return nil, invalidf("radius step must be >= 1, got %d", stepRadius)
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	radii := RadiusLayers(minRadius, maxRadius, stepRadius)
	s := &CircleSpace{
		acc:    newAccumulator(edges.Width, edges.Height, len(radii)),
		radii:  radii,
		opts:   opts,
		width:  edges.Width,
		height: edges.Height,
	}
	s.vote(edges)
	return s, nil
}

// RadiusLayers lists the radii sampled by a 3D circle space.
func RadiusLayers(minRadius, maxRadius, stepRadius int) []int {
	if stepRadius < 1 || minRadius > maxRadius {
		return nil
	}
	radii := make([]int, 0, (maxRadius-minRadius)/stepRadius+1)
	for r := minRadius; r <= maxRadius; r += stepRadius {
		radii = append(radii, r)
	}
	return radii
}

func (s *CircleSpace) vote(edges *EdgeImage) {
	layers := len(s.radii)
	cells := s.acc.Cells
	rule := s.opts.Bounds

	for l, radius := range s.radii {
		trig := NewTrigCache(s.opts.AngleSteps, 2*math.Pi, float64(radius))
		for y := 0; y < edges.Height; y++ {
			for x := 0; x < edges.Width; x++ {
				if edges.Pix[y*edges.Width+x] == 0 {
					continue
				}
				for t := range trig.Cos {
					a := int(math.Round(float64(x) - trig.Cos[t]))
					b := int(math.Round(float64(y) - trig.Sin[t]))
					if !rule.accepts(a, b, x, y, s.width, s.height) {
						s.dropped++
						continue
					}
					cells[(a*s.height+b)*layers+l]++
				}
			}
		}
	}
}

// Accumulator exposes the raw vote grid.
func (s *CircleSpace) Accumulator() *Accumulator { return s.acc }

// Radii returns the radius of every layer, in layer order.
func (s *CircleSpace) Radii() []int { return append([]int(nil), s.radii...) }

func (s *CircleSpace) Width() int             { return s.width }
func (s *CircleSpace) Height() int            { return s.height }
func (s *CircleSpace) AngleSteps() int        { return s.opts.AngleSteps }
func (s *CircleSpace) Bounds() VoteBoundsRule { return s.opts.Bounds }
func (s *CircleSpace) Is3D() bool             { return len(s.acc.dims) == 3 }

// Dropped returns how many (pixel, angle, radius) votes the bounds rule
// rejected.
func (s *CircleSpace) Dropped() int64 { return s.dropped }

// Votes returns the count at center (a, b) on layer l.
func (s *CircleSpace) Votes(a, b, l int) int {
	if a < 0 || b < 0 || a >= s.width || b >= s.height || l < 0 || l >= len(s.radii) {
		return 0
	}
	return int(s.acc.Cells[(a*s.height+b)*len(s.radii)+l])
}

// Rebuild zeroes the space and votes a new edge image of the same size into
// it.
func (s *CircleSpace) Rebuild(edges *EdgeImage) error {
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

func checkExtract(s *CircleSpace, threshold, minDistance int) error {
	if s == nil {
		return invalidf("circle space is nil")
	}
	if err := checkThreshold(threshold); err != nil {
		return err
	}
	if minDistance < 0 {
		return invalidf("min distance must be >= 0, got %d", minDistance)
	}
	return nil
}

// ExtractCircles scans a single-radius space for centers with more than
// threshold votes.
//
// The scan runs over a in the outer loop and b in the inner loop. After each
// accepted center both a and b advance by minDistance, which spaces out the
// reported centers along the scan.
func ExtractCircles(s *CircleSpace, threshold, minDistance int) ([]Circle, error) {
	if err := checkExtract(s, threshold, minDistance); err != nil {
		return nil, err
	}
	if s.Is3D() {
		return nil, invalidf("space has %d radius layers, use ExtractCircles3D", len(s.radii))
	}
	return s.layer(0, threshold, minDistance), nil
}

func (s *CircleSpace) layer(l, threshold, minDistance int) []Circle {
	var out []Circle
	radius := s.radii[l]
	skipScan(s.width, s.height, threshold, minDistance,
		func(a, b int) int { return s.Votes(a, b, l) },
		func(a, b, votes int) {
			out = append(out, Circle{X: a, Y: b, Radius: radius, Votes: votes})
		})
	return out
}

// ExtractCircles3D applies the ExtractCircles scan to every radius layer and
// combines the results according to mode. The output is ordered by
// (X, Y, Radius).
func ExtractCircles3D(s *CircleSpace, threshold, minDistance int, mode RadiusSuppression) ([]Circle, error) {
	if err := checkExtract(s, threshold, minDistance); err != nil {
		return nil, err
	}
	var all []Circle
	for l := range s.radii {
		all = append(all, s.layer(l, threshold, minDistance)...)
	}
	switch mode {
	case SuppressPerLayer:
		sortCircles(all)
		return all, nil
	case SuppressAcrossLayers:
		return suppressAcross(all, minDistance), nil
	default:
		return nil, invalidf("unknown radius suppression %d", int(mode))
	}
}
