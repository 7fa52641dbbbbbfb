// Package lane picks a left and a right lane line out of the lines detected
// in a road image and estimates the horizon where they meet.
//
// Selection is a greedy single pass. Mostly vertical lines are preferred: on
// each side the one whose bottom end lies closest to the vertical centerline
// wins. While a side has no vertical line, a mostly horizontal line crossing
// that side's border in the lower quarter of the image stands in for it, the
// lowest one winning.
package lane

import (
	"github.com/golang/geo/r2"

	"github.com/ironsheep/hough-tools-mcp/internal/geometry"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// Candidate is a detected line clipped to the image border.
//
// For a vertical candidate Segment runs from the top border (y = 0) to the
// bottom border (y = H); for a horizontal one it runs from the left border
// (x = 0) to the right border (x = W).
type Candidate struct {
	Segment  geometry.Segment
	Vertical bool
}

// CandidateFromLine clips the line (theta, rho) to the image border.
func CandidateFromLine(theta, rho float64, conv hough.IndexConvention, width, height int) Candidate {
	return Candidate{
		Segment:  hough.ToSegment(theta, rho, conv, width, height),
		Vertical: hough.IsVertical(theta),
	}
}

// Lanes is the outcome of one selection pass.
type Lanes struct {
	Left       geometry.Segment
	Right      geometry.Segment
	HasLeft    bool
	HasRight   bool
	Horizon    r2.Point
	HasHorizon bool
}

// SelectLanes runs the selection pass over candidates in order and intersects
// the two winners.
//
// Left and Right start at the bottom border: a vertical winner runs from its
// bottom end (bottomX, H) up to (topX, 0). A horizontal stand-in on the left
// runs from (0, leftY) to (W, rightY), on the right from (W, rightY) to
// (0, leftY). The horizon is reported only when both sides have a winner and
// the two segments cross strictly inside the image.
func SelectLanes(candidates []Candidate, width, height int) Lanes {
	w, h := float64(width), float64(height)
	midX := float64(width / 2)
	minX, maxX := 0.0, w
	minLeftY := float64(3 * height / 4)
	minRightY := minLeftY
	maxY := h
	leftHorizontal, rightHorizontal := true, true

	var lanes Lanes
	for _, c := range candidates {
		if c.Vertical {
			topX, bottomX := c.Segment.Start.X, c.Segment.End.X
			if minX < bottomX && bottomX <= midX {
				minX = bottomX
				lanes.Left.Set(bottomX, h, topX, 0)
				lanes.HasLeft = true
				leftHorizontal = false
			}
			if midX < bottomX && bottomX < maxX {
				maxX = bottomX
				lanes.Right.Set(bottomX, h, topX, 0)
				lanes.HasRight = true
				rightHorizontal = false
			}
			continue
		}

		leftY, rightY := c.Segment.Start.Y, c.Segment.End.Y
		if leftY > minLeftY && leftY < maxY && leftHorizontal {
			minLeftY = leftY
			lanes.Left.Set(0, leftY, w, rightY)
			lanes.HasLeft = true
		}
		if rightY > minRightY && rightY < maxY && rightHorizontal {
			minRightY = rightY
			lanes.Right.Set(w, rightY, 0, leftY)
			lanes.HasRight = true
		}
	}

	if lanes.HasLeft && lanes.HasRight {
		if p, ok := geometry.IntersectionPoint(lanes.Left, lanes.Right); ok && geometry.StrictlyInside(p, width, height) {
			lanes.Horizon = p
			lanes.HasHorizon = true
		}
	}
	return lanes
}

// Estimate converts lines of a space built with conv into candidates and runs
// SelectLanes over them.
func Estimate(lines []hough.Line, conv hough.IndexConvention, width, height int) Lanes {
	candidates := make([]Candidate, 0, len(lines))
	for _, l := range lines {
		candidates = append(candidates, CandidateFromLine(l.Theta, l.Rho, conv, width, height))
	}
	return SelectLanes(candidates, width, height)
}

// EstimateHorizon returns the horizon point of the lanes found among lines, if
// any.
func EstimateHorizon(lines []hough.Line, conv hough.IndexConvention, width, height int) (r2.Point, bool) {
	l := Estimate(lines, conv, width, height)
	return l.Horizon, l.HasHorizon
}

// DrawSegments returns what should be drawn for these lanes: each lane from
// its start to the horizon when there is one, otherwise each lane found, end
// to end.
func (l Lanes) DrawSegments() []geometry.Segment {
	if l.HasHorizon {
		return []geometry.Segment{
			{Start: l.Left.Start, End: l.Horizon},
			{Start: l.Right.Start, End: l.Horizon},
		}
	}
	var segs []geometry.Segment
	if l.HasLeft {
		segs = append(segs, l.Left)
	}
	if l.HasRight {
		segs = append(segs, l.Right)
	}
	return segs
}
