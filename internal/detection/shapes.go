package detection

import (
	"image"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// BoundsOf converts an image rectangle.
func BoundsOf(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Rect converts b back to an image rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// PointF is a sub-pixel coordinate, used where rounding would move a result
// by up to half a pixel (line endpoints, the horizon).
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Circle represents a detected circle.
type Circle struct {
	// Center is the detected center point of the circle.
	Center Point `json:"center"`

	// Radius is the radius of the layer the center was found on.
	Radius int `json:"radius"`

	// Diameter is 2 × Radius for convenience.
	Diameter int `json:"diameter"`

	// Votes is the accumulator count at the center.
	Votes int `json:"votes"`

	// Confidence is the fraction of sampled angles that voted for the
	// center, capped at 1.0.
	Confidence float64 `json:"confidence"`

	// FillColor is the hex color sampled at the center. Only set when the
	// frame is available.
	FillColor string `json:"fill_color,omitempty"`
}

// CirclesResult contains all circles detected in an edge image.
type CirclesResult struct {
	// Circles is sorted by votes, highest first. Equal votes keep scan order.
	Circles []Circle `json:"circles"`

	// Count is the number of circles detected.
	Count int `json:"count"`

	// Radii lists the radius layers that were searched.
	Radii []int `json:"radii"`

	// Threshold is the vote threshold that was applied.
	Threshold int `json:"threshold"`

	// Suppression is the cross-radius rule; empty for a single radius.
	Suppression string `json:"suppression,omitempty"`

	EdgePixels int   `json:"edge_pixels"`
	Dropped    int64 `json:"dropped_votes"`
}

// DetectCircles finds circles in an edge image.
//
// When MinRadius equals MaxRadius a single (a, b) space is built and
// extracted with the skip-ahead scan; otherwise a 3D space covers MinRadius
// to MaxRadius in StepRadius steps and layers are combined according to
// RadiusSuppression.
//
// Parameters:
//   - edges: Binary edge image.
//   - p: Validated parameters; the circle and budget fields are used.
//
// Returns:
//   - *CirclesResult: Detected circles, strongest first.
//   - error: Wraps hough.ErrInvalidParameter or ErrWorkBudget.
func DetectCircles(edges *hough.EdgeImage, p config.Params) (*CirclesResult, error) {
	opts, err := p.CircleOptions()
	if err != nil {
		return nil, err
	}
	pixels, err := edgeCount(edges)
	if err != nil {
		return nil, err
	}
	radii := hough.RadiusLayers(p.MinRadius, p.MaxRadius, p.StepRadius)
	if err := checkBudget(pixels, p.AngleSteps, max(len(radii), 1), p.MaxVotes); err != nil {
		return nil, err
	}

	res := &CirclesResult{
		Circles:    []Circle{},
		Threshold:  p.CircleThreshold,
		EdgePixels: pixels,
	}

	var (
		space *hough.CircleSpace
		found []hough.Circle
	)
	if p.MinRadius == p.MaxRadius {
		space, err = hough.BuildCircleSpace(edges, p.MinRadius, opts)
		if err != nil {
			return nil, err
		}
		found, err = hough.ExtractCircles(space, p.CircleThreshold, p.MinDistance)
	} else {
		mode, perr := p.Suppression()
		if perr != nil {
			return nil, perr
		}
		space, err = hough.BuildCircleSpace3D(edges, p.MinRadius, p.MaxRadius, p.StepRadius, opts)
		if err != nil {
			return nil, err
		}
		res.Suppression = mode.String()
		found, err = hough.ExtractCircles3D(space, p.CircleThreshold, p.MinDistance, mode)
	}
	if err != nil {
		return nil, err
	}

	res.Radii = space.Radii()
	res.Dropped = space.Dropped()
	for _, c := range found {
		res.Circles = append(res.Circles, Circle{
			Center:     Point{X: c.X, Y: c.Y},
			Radius:     c.Radius,
			Diameter:   2 * c.Radius,
			Votes:      c.Votes,
			Confidence: math.Round(min(float64(c.Votes)/float64(space.AngleSteps()), 1)*100) / 100,
		})
	}
	slices.SortStableFunc(res.Circles, func(a, b Circle) int { return b.Votes - a.Votes })
	res.Count = len(res.Circles)
	return res, nil
}

// sampleColorHex returns the hex color (#rrggbb) of the pixel at (x, y) of
// img, relative to its top-left corner. Points outside the image and fully
// transparent pixels yield "".
func sampleColorHex(img image.Image, x, y int) string {
	b := img.Bounds()
	pt := image.Pt(x+b.Min.X, y+b.Min.Y)
	if !pt.In(b) {
		return ""
	}
	c, ok := colorful.MakeColor(img.At(pt.X, pt.Y))
	if !ok {
		return ""
	}
	return c.Hex()
}
