package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Named regions of interest. Pixels outside the region never vote.
const (
	RegionAuto        = "auto"
	RegionFull        = "full"
	RegionTopHalf     = "top-half"
	RegionBottomHalf  = "bottom-half"
	RegionLeftHalf    = "left-half"
	RegionRightHalf   = "right-half"
	RegionRightThird  = "right-third"
	RegionTopLeft     = "top-left"
	RegionTopRight    = "top-right"
	RegionBottomLeft  = "bottom-left"
	RegionBottomRight = "bottom-right"
	RegionCenter      = "center"
)

// DefaultRegion returns the region used when none is requested: the road
// occupies the bottom half of a landscape frame and the right third of a
// portrait one.
func DefaultRegion(portrait bool) string {
	if portrait {
		return RegionRightThird
	}
	return RegionBottomHalf
}

// Region resolves a named region of a width×height frame to a rectangle
// relative to the frame's top-left corner. The empty name and RegionAuto pick
// DefaultRegion for the frame's orientation.
func Region(name string, width, height int) (image.Rectangle, error) {
	w, h := width, height
	midX, midY := w/2, h/2

	switch name {
	case "", RegionAuto:
		return Region(DefaultRegion(IsPortrait(w, h)), w, h)
	case RegionFull:
		return image.Rect(0, 0, w, h), nil
	case RegionTopHalf:
		return image.Rect(0, 0, w, midY), nil
	case RegionBottomHalf:
		return image.Rect(0, midY, w, h), nil
	case RegionLeftHalf:
		return image.Rect(0, 0, midX, h), nil
	case RegionRightHalf:
		return image.Rect(midX, 0, w, h), nil
	case RegionRightThird:
		return image.Rect(2*w/3, 0, w, h), nil
	case RegionTopLeft:
		return image.Rect(0, 0, midX, midY), nil
	case RegionTopRight:
		return image.Rect(midX, 0, w, midY), nil
	case RegionBottomLeft:
		return image.Rect(0, midY, midX, h), nil
	case RegionBottomRight:
		return image.Rect(midX, midY, w, h), nil
	case RegionCenter:
		// Center 50% of the frame
		qW, qH := w/4, h/4
		return image.Rect(qW, qH, w-qW, h-qH), nil
	default:
		return image.Rectangle{}, fmt.Errorf("unknown region: %s", name)
	}
}

// CropRegion cuts the named region out of img. The result's bounds start at
// (0, 0); the returned rectangle says where it sat in the frame.
func CropRegion(img image.Image, name string) (*image.NRGBA, image.Rectangle, error) {
	bounds := img.Bounds()
	r, err := Region(name, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	if r.Empty() {
		return nil, image.Rectangle{}, fmt.Errorf("region %q of a %dx%d frame is empty", name, bounds.Dx(), bounds.Dy())
	}
	return imaging.Crop(img, r.Add(bounds.Min)), r, nil
}
