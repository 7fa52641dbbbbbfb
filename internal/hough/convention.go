package hough

import (
	"fmt"
	"math"
)

// IndexConvention selects the origin and bias of the ρ axis in a line space.
type IndexConvention int

const (
	// Centered measures ρ from (⌊W/2⌋, ⌊H/2⌋) and biases it by the Hough
	// height ⌊√2·max(W,H)/2⌋.
	Centered IndexConvention = iota
	// CornerAnchored measures ρ from the top-left pixel and biases it by the
	// image diagonal ⌊√(W²+H²)⌋.
	CornerAnchored
)

func (c IndexConvention) String() string {
	switch c {
	case Centered:
		return "centered"
	case CornerAnchored:
		return "corner"
	default:
		return fmt.Sprintf("IndexConvention(%d)", int(c))
	}
}

// ParseIndexConvention accepts the names produced by String.
func ParseIndexConvention(s string) (IndexConvention, error) {
	switch s {
	case "", "centered", "center":
		return Centered, nil
	case "corner", "corner-anchored":
		return CornerAnchored, nil
	default:
		return Centered, invalidf("unknown index convention %q", s)
	}
}

// origin returns the image point ρ is measured from.
func (c IndexConvention) origin(width, height int) (cx, cy float64) {
	if c == CornerAnchored {
		return 0, 0
	}
	return float64(width / 2), float64(height / 2)
}

// bias returns the offset added to a rounded ρ to make it an index. The ρ
// axis spans 2·bias cells.
func (c IndexConvention) bias(width, height int) int {
	if c == CornerAnchored {
		return int(math.Sqrt(float64(width*width + height*height)))
	}
	return int(math.Sqrt2 * float64(max(width, height)) / 2)
}

// VoteBoundsRule limits which circle centers a pixel may vote for.
type VoteBoundsRule int

const (
	// BoundsUpperLeft accepts a center (a, b) only when 0 < a ≤ x and
	// 0 < b ≤ y for the voting pixel (x, y).
	BoundsUpperLeft VoteBoundsRule = iota
	// BoundsFullImage accepts any center inside the image.
	BoundsFullImage
)

func (r VoteBoundsRule) String() string {
	switch r {
	case BoundsUpperLeft:
		return "upper-left"
	case BoundsFullImage:
		return "full-image"
	default:
		return fmt.Sprintf("VoteBoundsRule(%d)", int(r))
	}
}

// ParseVoteBoundsRule accepts the names produced by String.
func ParseVoteBoundsRule(s string) (VoteBoundsRule, error) {
	switch s {
	case "", "upper-left":
		return BoundsUpperLeft, nil
	case "full-image", "full":
		return BoundsFullImage, nil
	default:
		return BoundsUpperLeft, invalidf("unknown vote bounds rule %q", s)
	}
}

func (r VoteBoundsRule) accepts(a, b, x, y, width, height int) bool {
	if r == BoundsFullImage {
		return a >= 0 && a < width && b >= 0 && b < height
	}
	return a > 0 && a <= x && b > 0 && b <= y
}

// RadiusSuppression decides how detections on different radius layers of a
// 3D circle space interact.
type RadiusSuppression int

const (
	// SuppressPerLayer extracts every radius layer independently, so one
	// physical circle may be reported at several neighbouring radii.
	SuppressPerLayer RadiusSuppression = iota
	// SuppressAcrossLayers keeps the strongest detection and drops any other
	// whose center lies within minDistance of a kept one, on any layer.
	SuppressAcrossLayers
)

func (s RadiusSuppression) String() string {
	switch s {
	case SuppressPerLayer:
		return "per-layer"
	case SuppressAcrossLayers:
		return "across-layers"
	default:
		return fmt.Sprintf("RadiusSuppression(%d)", int(s))
	}
}

// ParseRadiusSuppression accepts the names produced by String. The empty
// string selects SuppressAcrossLayers.
func ParseRadiusSuppression(s string) (RadiusSuppression, error) {
	switch s {
	case "per-layer", "layer":
		return SuppressPerLayer, nil
	case "", "across-layers", "across":
		return SuppressAcrossLayers, nil
	default:
		return SuppressAcrossLayers, invalidf("unknown radius suppression %q", s)
	}
}
