package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestRegion(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want image.Rectangle
	}{
		{RegionFull, 100, 60, image.Rect(0, 0, 100, 60)},
		{RegionTopHalf, 100, 60, image.Rect(0, 0, 100, 30)},
		{RegionBottomHalf, 100, 60, image.Rect(0, 30, 100, 60)},
		{RegionLeftHalf, 100, 60, image.Rect(0, 0, 50, 60)},
		{RegionRightHalf, 100, 60, image.Rect(50, 0, 100, 60)},
		{RegionRightThird, 90, 60, image.Rect(60, 0, 90, 60)},
		{RegionTopLeft, 100, 60, image.Rect(0, 0, 50, 30)},
		{RegionTopRight, 100, 60, image.Rect(50, 0, 100, 30)},
		{RegionBottomLeft, 100, 60, image.Rect(0, 30, 50, 60)},
		{RegionBottomRight, 100, 60, image.Rect(50, 30, 100, 60)},
		{RegionCenter, 100, 60, image.Rect(25, 15, 75, 45)},
		{RegionAuto, 100, 60, image.Rect(0, 30, 100, 60)},
		{"", 60, 90, image.Rect(40, 0, 60, 90)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Region(tt.name, tt.w, tt.h)
			if err != nil {
				t.Fatalf("Region(%q) failed: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("Region(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRegion_Unknown(t *testing.T) {
	if _, err := Region("upper-third", 100, 100); err == nil {
		t.Error("expected error for unknown region")
	}
}

func TestDefaultRegion(t *testing.T) {
	if got := DefaultRegion(false); got != RegionBottomHalf {
		t.Errorf("landscape: got %s, want %s", got, RegionBottomHalf)
	}
	if got := DefaultRegion(true); got != RegionRightThird {
		t.Errorf("portrait: got %s, want %s", got, RegionRightThird)
	}
}

func TestCropRegion(t *testing.T) {
	// Offset bounds must not leak into the crop.
	img := image.NewRGBA(image.Rect(10, 10, 110, 70))
	img.Set(60, 40, color.RGBA{255, 0, 0, 255})

	sub, r, err := CropRegion(img, RegionBottomRight)
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if r != image.Rect(50, 30, 100, 60) {
		t.Errorf("region: got %v", r)
	}
	if b := sub.Bounds(); b != image.Rect(0, 0, 50, 30) {
		t.Errorf("crop bounds: got %v, want (0,0)-(50,30)", b)
	}
	if c := sub.NRGBAAt(0, 0); c.R != 255 {
		t.Errorf("crop origin should hold the red pixel, got %v", c)
	}
}

func TestCropRegion_Empty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if _, _, err := CropRegion(img, RegionTopHalf); err == nil {
		t.Error("expected error for an empty region")
	}
}
