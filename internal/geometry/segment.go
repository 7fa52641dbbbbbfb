// Package geometry provides the small amount of planar geometry needed to turn
// detected lines into lane estimates: a finite segment type, the orientation
// (relative counter-clockwise) test, and segment/segment intersection.
//
// Points are github.com/golang/geo/r2 points in image coordinates, so the
// y axis grows downward like everywhere else in this module.
package geometry

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Segment is a finite line segment from Start to End.
//
// It doubles as the lane line container used during horizon estimation: the
// selection pass overwrites it in place with Set as better candidates appear.
type Segment struct {
	Start r2.Point `json:"start"`
	End   r2.Point `json:"end"`
}

// NewSegment builds a segment from raw coordinates.
func NewSegment(x1, y1, x2, y2 float64) Segment {
	return Segment{Start: r2.Point{X: x1, Y: y1}, End: r2.Point{X: x2, Y: y2}}
}

// Set replaces both endpoints.
func (s *Segment) Set(x1, y1, x2, y2 float64) {
	s.Start = r2.Point{X: x1, Y: y1}
	s.End = r2.Point{X: x2, Y: y2}
}

// Vector returns End - Start.
func (s Segment) Vector() r2.Point {
	return s.End.Sub(s.Start)
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.Vector().Norm()
}

// Midpoint returns the point halfway between Start and End.
func (s Segment) Midpoint() r2.Point {
	return s.Start.Add(s.End).Mul(0.5)
}

func (s Segment) String() string {
	return fmt.Sprintf("(%.2f,%.2f)-(%.2f,%.2f)", s.Start.X, s.Start.Y, s.End.X, s.End.Y)
}

// RelativeCCW reports on which side of the directed segment a->b the point p
// lies: 1, -1, or 0 when p is on the segment itself.
//
// A collinear point that lies beyond a yields -1 and one beyond b yields 1, so
// the sign product used by SegmentsIntersect treats collinear but disjoint
// segments as non-intersecting.
func RelativeCCW(a, b, p r2.Point) int {
	d := b.Sub(a)
	q := p.Sub(a)
	ccw := q.X*d.Y - q.Y*d.X
	if ccw == 0 {
		// Collinear: classify by projection onto the segment.
		ccw = q.Dot(d)
		if ccw > 0 {
			q = q.Sub(d)
			ccw = q.Dot(d)
			if ccw < 0 {
				ccw = 0
			}
		}
	}
	switch {
	case ccw < 0:
		return -1
	case ccw > 0:
		return 1
	default:
		return 0
	}
}

// SegmentsIntersect reports whether segments s and o share at least one point.
//
// Each segment's endpoints must lie on opposite sides of (or on) the other
// segment's supporting line.
func SegmentsIntersect(s, o Segment) bool {
	return RelativeCCW(s.Start, s.End, o.Start)*RelativeCCW(s.Start, s.End, o.End) <= 0 &&
		RelativeCCW(o.Start, o.End, s.Start)*RelativeCCW(o.Start, o.End, s.End) <= 0
}

// IntersectionPoint returns the point where s and o cross.
//
// ok is false when the segments do not intersect, when they are parallel, or
// when the crossing falls exactly on an endpoint of s (parameter 0 or 1).
func IntersectionPoint(s, o Segment) (p r2.Point, ok bool) {
	if !SegmentsIntersect(s, o) {
		return r2.Point{}, false
	}
	r := s.Vector()
	d := o.Vector()

	det := d.X*r.Y - d.Y*r.X
	if det == 0 {
		return r2.Point{}, false
	}
	z := (d.X*(o.Start.Y-s.Start.Y) + d.Y*(s.Start.X-o.Start.X)) / det
	if z == 0 || z == 1 {
		return r2.Point{}, false
	}
	return s.Start.Add(r.Mul(z)), true
}

// Bounds returns the rectangle [0,width]x[0,height] used to decide whether a
// point lies inside an image.
func Bounds(width, height int) r2.Rect {
	return r2.RectFromPoints(r2.Point{}, r2.Point{X: float64(width), Y: float64(height)})
}

// StrictlyInside reports whether p lies inside the image, excluding its border.
func StrictlyInside(p r2.Point, width, height int) bool {
	return Bounds(width, height).InteriorContainsPoint(p)
}
