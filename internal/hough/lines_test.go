package hough

import (
	"errors"
	"math"
	"testing"

	"go.viam.com/test"
)

// edgesFrom builds a width×height edge image with the given pixels set.
func edgesFrom(width, height int, pts ...[2]int) *EdgeImage {
	e := NewEdgeImage(width, height)
	for _, p := range pts {
		e.Set(p[0], p[1], true)
	}
	return e
}

func horizontalLine(y int) [][2]int {
	var pts [][2]int
	for x := 0; x < 64; x++ {
		pts = append(pts, [2]int{x, y})
	}
	return pts
}

func verticalLine(x int) [][2]int {
	var pts [][2]int
	for y := 0; y < 64; y++ {
		pts = append(pts, [2]int{x, y})
	}
	return pts
}

func diagonalLine() [][2]int {
	var pts [][2]int
	for i := 0; i < 64; i++ {
		pts = append(pts, [2]int{i, i})
	}
	return pts
}

func slopedLine() [][2]int {
	var pts [][2]int
	for x := 0; x < 64; x++ {
		pts = append(pts, [2]int{x, int(math.Round(10 + 0.5*float64(x)))})
	}
	return pts
}

func strongest(lines []Line) Line {
	best := lines[0]
	for _, l := range lines[1:] {
		if l.Votes > best.Votes {
			best = l
		}
	}
	return best
}

func TestBuildLineSpace_Shape(t *testing.T) {
	e := NewEdgeImage(64, 48)

	s, err := BuildLineSpace(e, LineOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Bias(), test.ShouldEqual, 45)
	test.That(t, s.AngleSteps(), test.ShouldEqual, DefaultAngleSteps)
	test.That(t, s.Accumulator().Dims(), test.ShouldResemble, []int{180, 90})

	s, err = BuildLineSpace(e, LineOptions{AngleSteps: 90, Convention: CornerAnchored})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Bias(), test.ShouldEqual, 80)
	test.That(t, s.Accumulator().Dims(), test.ShouldResemble, []int{90, 160})
}

func TestBuildLineSpace_SumInvariant(t *testing.T) {
	pts := append(horizontalLine(20), verticalLine(40)...)
	pts = append(pts, diagonalLine()...)
	pts = append(pts, [2]int{0, 63}, [2]int{63, 0}, [2]int{63, 63}, [2]int{0, 0})
	e := edgesFrom(64, 64, pts...)

	for _, conv := range []IndexConvention{Centered, CornerAnchored} {
		t.Run(conv.String(), func(t *testing.T) {
			s, err := BuildLineSpace(e, LineOptions{Convention: conv})
			test.That(t, err, test.ShouldBeNil)
			want := int64(e.Count() * s.AngleSteps())
			test.That(t, s.Accumulator().Total()+s.Dropped(), test.ShouldEqual, want)
		})
	}

	s, err := BuildLineSpace(e, LineOptions{Convention: CornerAnchored})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Dropped(), test.ShouldEqual, int64(0))
}

func TestLines_SinglePerfectLine(t *testing.T) {
	tests := []struct {
		name       string
		pts        [][2]int
		thetaIndex int
		start, end [2]float64
		tolerance  float64
	}{
		{"horizontal", horizontalLine(20), 90, [2]float64{0, 20}, [2]float64{64, 20}, 1e-6},
		{"vertical", verticalLine(40), 0, [2]float64{40, 0}, [2]float64{40, 64}, 1e-6},
		{"diagonal", diagonalLine(), 135, [2]float64{0, 0}, [2]float64{64, 64}, 1e-6},
		{"sloped", slopedLine(), 117, [2]float64{0, 10}, [2]float64{64, 42}, 1.0},
	}

	for _, tt := range tests {
		for _, conv := range []IndexConvention{Centered, CornerAnchored} {
			t.Run(tt.name+"/"+conv.String(), func(t *testing.T) {
				s, err := BuildLineSpace(edgesFrom(64, 64, tt.pts...), LineOptions{Convention: conv})
				test.That(t, err, test.ShouldBeNil)

				lines, err := ExtractLines(s, 20)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, lines, test.ShouldNotBeEmpty)

				best := strongest(lines)
				test.That(t, best.ThetaIndex, test.ShouldEqual, tt.thetaIndex)

				seg := s.Segment(best)
				test.That(t, seg.Start.X, test.ShouldAlmostEqual, tt.start[0], tt.tolerance)
				test.That(t, seg.Start.Y, test.ShouldAlmostEqual, tt.start[1], tt.tolerance)
				test.That(t, seg.End.X, test.ShouldAlmostEqual, tt.end[0], tt.tolerance)
				test.That(t, seg.End.Y, test.ShouldAlmostEqual, tt.end[1], tt.tolerance)
			})
		}
	}
}

func TestLines_HorizontalIsUnique(t *testing.T) {
	s, err := BuildLineSpace(edgesFrom(64, 64, horizontalLine(20)...), LineOptions{})
	test.That(t, err, test.ShouldBeNil)

	lines, err := ExtractLines(s, 20)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(lines), test.ShouldEqual, 1)
	test.That(t, lines[0].Votes, test.ShouldEqual, 64)
	test.That(t, lines[0].Rho, test.ShouldEqual, -12.0)
	test.That(t, lines[0].Theta, test.ShouldAlmostEqual, math.Pi/2)
}

func TestLines_EmptyImage(t *testing.T) {
	s, err := BuildLineSpace(NewEdgeImage(64, 64), LineOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Accumulator().Total(), test.ShouldEqual, int64(0))

	for _, threshold := range []int{0, 1, 10, 100} {
		lines, err := ExtractLines(s, threshold)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, lines, test.ShouldBeEmpty)
	}
}

func TestLines_Deterministic(t *testing.T) {
	pts := append(slopedLine(), verticalLine(12)...)
	e := edgesFrom(64, 64, pts...)

	s1, err := BuildLineSpace(e, LineOptions{})
	test.That(t, err, test.ShouldBeNil)
	s2, err := BuildLineSpace(e, LineOptions{})
	test.That(t, err, test.ShouldBeNil)

	test.That(t, s1.Accumulator().Cells, test.ShouldResemble, s2.Accumulator().Cells)

	l1, err := ExtractLines(s1, 15)
	test.That(t, err, test.ShouldBeNil)
	l2, err := ExtractLines(s2, 15)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l1, test.ShouldResemble, l2)
}

func TestLines_MonotonicThreshold(t *testing.T) {
	pts := append(horizontalLine(20), verticalLine(40)...)
	pts = append(pts, slopedLine()...)
	s, err := BuildLineSpace(edgesFrom(64, 64, pts...), LineOptions{})
	test.That(t, err, test.ShouldBeNil)

	prev := math.MaxInt
	for threshold := 0; threshold <= 80; threshold += 5 {
		lines, err := ExtractLines(s, threshold)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(lines), test.ShouldBeLessThanOrEqualTo, prev)
		prev = len(lines)
	}
}

func TestLines_OrderAndRestart(t *testing.T) {
	pts := append(horizontalLine(20), verticalLine(40)...)
	pts = append(pts, diagonalLine()...)
	s, err := BuildLineSpace(edgesFrom(64, 64, pts...), LineOptions{})
	test.That(t, err, test.ShouldBeNil)

	var first, second []Line
	for l := range s.Lines(20) {
		first = append(first, l)
	}
	for l := range s.Lines(20) {
		second = append(second, l)
	}
	test.That(t, first, test.ShouldResemble, second)
	test.That(t, len(first), test.ShouldBeGreaterThanOrEqualTo, 3)

	for i := 1; i < len(first); i++ {
		p, q := first[i-1], first[i]
		ordered := p.ThetaIndex < q.ThetaIndex || (p.ThetaIndex == q.ThetaIndex && p.RhoIndex < q.RhoIndex)
		test.That(t, ordered, test.ShouldBeTrue)
	}

	n := 0
	for range s.Lines(20) {
		n++
		if n == 1 {
			break
		}
	}
	test.That(t, n, test.ShouldEqual, 1)

	none := 0
	for range s.Lines(-1) {
		none++
	}
	test.That(t, none, test.ShouldEqual, 0)
}

func TestLines_Suppression(t *testing.T) {
	s, err := BuildLineSpace(edgesFrom(64, 64, horizontalLine(20)...), LineOptions{})
	test.That(t, err, test.ShouldBeNil)

	// Every accepted peak must be a maximum of its wrapped window.
	for l := range s.Lines(0) {
		for dt := -DefaultNeighborhood; dt <= DefaultNeighborhood; dt++ {
			tt := (l.ThetaIndex + dt + s.AngleSteps()) % s.AngleSteps()
			for dr := -DefaultNeighborhood; dr <= DefaultNeighborhood; dr++ {
				test.That(t, s.Accumulator().At2(tt, l.RhoIndex+dr), test.ShouldBeLessThanOrEqualTo, l.Votes)
			}
		}
	}
}

func TestLineSpace_Rebuild(t *testing.T) {
	a := edgesFrom(64, 64, horizontalLine(20)...)
	b := edgesFrom(64, 64, verticalLine(40)...)

	s, err := BuildLineSpace(a, LineOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Rebuild(b), test.ShouldBeNil)

	fresh, err := BuildLineSpace(b, LineOptions{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Accumulator().Cells, test.ShouldResemble, fresh.Accumulator().Cells)
	test.That(t, s.Dropped(), test.ShouldEqual, fresh.Dropped())

	err = s.Rebuild(NewEdgeImage(32, 32))
	test.That(t, errors.Is(err, ErrInvalidParameter), test.ShouldBeTrue)
}

func TestBuildLineSpace_InvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		edges *EdgeImage
		opts  LineOptions
	}{
		{"nil image", nil, LineOptions{}},
		{"empty image", NewEdgeImage(0, 10), LineOptions{}},
		{"short pixel buffer", &EdgeImage{Width: 4, Height: 4, Pix: make([]uint8, 3)}, LineOptions{}},
		{"negative angle steps", NewEdgeImage(8, 8), LineOptions{AngleSteps: -1}},
		{"negative neighborhood", NewEdgeImage(8, 8), LineOptions{Neighborhood: -2}},
		{"unknown convention", NewEdgeImage(8, 8), LineOptions{Convention: IndexConvention(7)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildLineSpace(tt.edges, tt.opts)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, errors.Is(err, ErrInvalidParameter), test.ShouldBeTrue)
		})
	}

	s, err := BuildLineSpace(NewEdgeImage(8, 8), LineOptions{})
	test.That(t, err, test.ShouldBeNil)
	_, err = ExtractLines(s, -1)
	test.That(t, errors.Is(err, ErrInvalidParameter), test.ShouldBeTrue)
}

func TestToSegment_Boundaries(t *testing.T) {
	// θ = π/4 takes the sin branch: y is evaluated at x = 0 and x = W.
	seg := ToSegment(math.Pi/4, 0, Centered, 64, 64)
	test.That(t, seg.Start.X, test.ShouldEqual, 0.0)
	test.That(t, seg.Start.Y, test.ShouldAlmostEqual, 64.0, 1e-9)
	test.That(t, seg.End.X, test.ShouldEqual, 64.0)
	test.That(t, seg.End.Y, test.ShouldAlmostEqual, 0.0, 1e-9)

	// θ = 0 is vertical: x is evaluated at y = 0 and y = H.
	seg = ToSegment(0, 10, CornerAnchored, 64, 48)
	test.That(t, seg.Start.X, test.ShouldAlmostEqual, 10.0)
	test.That(t, seg.Start.Y, test.ShouldEqual, 0.0)
	test.That(t, seg.End.X, test.ShouldAlmostEqual, 10.0)
	test.That(t, seg.End.Y, test.ShouldEqual, 48.0)

	test.That(t, IsVertical(0), test.ShouldBeTrue)
	test.That(t, IsVertical(math.Pi/4), test.ShouldBeFalse)
	test.That(t, IsVertical(3*math.Pi/4), test.ShouldBeFalse)
	test.That(t, IsVertical(3*math.Pi/4+0.01), test.ShouldBeTrue)
}

func TestParseIndexConvention(t *testing.T) {
	c, err := ParseIndexConvention("corner")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c, test.ShouldEqual, CornerAnchored)

	c, err = ParseIndexConvention("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c, test.ShouldEqual, Centered)

	_, err = ParseIndexConvention("diagonal")
	test.That(t, errors.Is(err, ErrInvalidParameter), test.ShouldBeTrue)
}
