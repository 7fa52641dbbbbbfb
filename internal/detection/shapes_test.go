package detection

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// drawCircle calls set for the rounded outline of a circle, sampled at 720
// angles.
func drawCircle(cx, cy, r float64, set func(x, y int)) {
	for i := 0; i < 720; i++ {
		a := 2 * math.Pi * float64(i) / 720
		set(int(math.Round(cx+r*math.Cos(a))), int(math.Round(cy+r*math.Sin(a))))
	}
}

// twoCircleEdges draws circles of radius 10 at (20,20) and (45,45).
func twoCircleEdges() *hough.EdgeImage {
	e := hough.NewEdgeImage(64, 64)
	set := func(x, y int) { e.Set(x, y, true) }
	drawCircle(20, 20, 10, set)
	drawCircle(45, 45, 10, set)
	return e
}

func circleParams() config.Params {
	p := config.Defaults()
	p.Mode = config.ModeCircles
	p.MinRadius, p.MaxRadius = 10, 10
	p.CircleThreshold = 30
	p.MinDistance = 15
	return p
}

func TestDetectCircles_KnownRadius(t *testing.T) {
	result, err := DetectCircles(twoCircleEdges(), circleParams())
	if err != nil {
		t.Fatalf("DetectCircles failed: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("Expected 2 circles, got %d: %+v", result.Count, result.Circles)
	}

	want := []Point{{20, 20}, {45, 45}}
	for i, c := range result.Circles {
		if c.Center != want[i] {
			t.Errorf("Circle %d: expected center %+v, got %+v", i, want[i], c.Center)
		}
		if c.Radius != 10 || c.Diameter != 20 || c.Votes != 48 {
			t.Errorf("Circle %d: unexpected radius/votes %+v", i, c)
		}
		if c.Confidence <= 0 || c.Confidence > 1 {
			t.Errorf("Circle %d: confidence %v out of range", i, c.Confidence)
		}
	}
	if len(result.Radii) != 1 || result.Radii[0] != 10 {
		t.Errorf("Expected radii [10], got %v", result.Radii)
	}
	if result.Suppression != "" {
		t.Errorf("Single radius should not report suppression, got %q", result.Suppression)
	}
}

func TestDetectCircles_RadiusRange(t *testing.T) {
	tests := []struct {
		suppression string
		count       int
	}{
		{"per-layer", 8},
		{"across-layers", 2},
	}

	for _, tt := range tests {
		t.Run(tt.suppression, func(t *testing.T) {
			p := circleParams()
			p.MinRadius, p.MaxRadius, p.StepRadius = 6, 14, 2
			p.RadiusSuppression = tt.suppression

			result, err := DetectCircles(twoCircleEdges(), p)
			if err != nil {
				t.Fatalf("DetectCircles failed: %v", err)
			}
			if result.Count != tt.count {
				t.Fatalf("Expected %d circles, got %d: %+v", tt.count, result.Count, result.Circles)
			}
			if len(result.Radii) != 5 {
				t.Errorf("Expected 5 radius layers, got %v", result.Radii)
			}
			if result.Suppression != tt.suppression {
				t.Errorf("Expected suppression %q, got %q", tt.suppression, result.Suppression)
			}
			// The true radius collects the most votes.
			if result.Circles[0].Radius != 10 || result.Circles[0].Votes != 48 {
				t.Errorf("Expected strongest circle at radius 10, got %+v", result.Circles[0])
			}
			for i := 1; i < result.Count; i++ {
				if result.Circles[i].Votes > result.Circles[i-1].Votes {
					t.Errorf("Circles not sorted by votes at %d", i)
				}
			}
		})
	}
}

func TestDetectCircles_WorkBudget(t *testing.T) {
	edges := twoCircleEdges()
	p := circleParams()
	p.MinRadius, p.MaxRadius, p.StepRadius = 6, 14, 2
	p.MaxVotes = int64(edges.Count()) * 180 * 4

	if _, err := DetectCircles(edges, p); !errors.Is(err, ErrWorkBudget) {
		t.Errorf("Expected ErrWorkBudget for 5 layers, got %v", err)
	}

	p.MaxVotes *= 2
	if _, err := DetectCircles(edges, p); err != nil {
		t.Errorf("Expected budget to pass, got %v", err)
	}
}

func TestDetectCircles_Errors(t *testing.T) {
	if _, err := DetectCircles(nil, circleParams()); !errors.Is(err, hough.ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter for nil edges, got %v", err)
	}

	p := circleParams()
	p.VoteBounds = "anywhere"
	if _, err := DetectCircles(twoCircleEdges(), p); err == nil {
		t.Error("Expected error for unknown vote bounds")
	}
}

func TestSampleColorHex(t *testing.T) {
	img := createTestImage(10, 10, color.RGBA{255, 0, 0, 255})
	img.Set(3, 4, color.RGBA{0, 128, 255, 255})

	tests := []struct {
		x, y int
		want string
	}{
		{0, 0, "#ff0000"},
		{3, 4, "#0080ff"},
		{10, 0, ""},
		{-1, 5, ""},
	}
	for _, tt := range tests {
		if got := sampleColorHex(img, tt.x, tt.y); got != tt.want {
			t.Errorf("sampleColorHex(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}

	transparent := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if got := sampleColorHex(transparent, 0, 0); got != "" {
		t.Errorf("Expected no color for a transparent pixel, got %q", got)
	}
}

func TestBounds(t *testing.T) {
	r := image.Rect(2, 3, 10, 20)
	b := BoundsOf(r)
	if b != (Bounds{X1: 2, Y1: 3, X2: 10, Y2: 20}) {
		t.Errorf("Unexpected bounds %+v", b)
	}
	if b.Rect() != r {
		t.Errorf("Round trip failed: %v", b.Rect())
	}
}
