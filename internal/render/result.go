package render

import (
	"image"

	"github.com/golang/geo/r2"

	"github.com/ironsheep/hough-tools-mcp/internal/detection"
	"github.com/ironsheep/hough-tools-mcp/internal/geometry"
)

// FromResult collects what should be drawn for a detection result. The
// region of interest is included unless it covers the whole frame.
func FromResult(res *detection.Result) Annotations {
	var ann Annotations
	if res == nil {
		return ann
	}
	region := res.Region.Rect()
	if region != image.Rect(0, 0, res.Width, res.Height) {
		ann.Region = &region
	}

	if res.Lines != nil {
		for _, l := range res.Lines.Lines {
			ann.Lines = append(ann.Lines, geometry.NewSegment(l.Start.X, l.Start.Y, l.End.X, l.End.Y))
		}
	}
	if res.Segments != nil {
		for _, s := range res.Segments.Segments {
			ann.Segments = append(ann.Segments, geometry.NewSegment(
				float64(s.Start.X), float64(s.Start.Y), float64(s.End.X), float64(s.End.Y)))
		}
	}
	if res.Circles != nil {
		for _, c := range res.Circles.Circles {
			ann.Circles = append(ann.Circles, Circle{
				X:      float64(c.Center.X),
				Y:      float64(c.Center.Y),
				Radius: float64(c.Radius),
			})
		}
	}
	if res.Lanes != nil {
		ann.Lanes = res.Lanes.Segments()
		if h := res.Lanes.Horizon; h != nil {
			ann.Horizon = &r2.Point{X: h.X, Y: h.Y}
		}
	}
	return ann
}
