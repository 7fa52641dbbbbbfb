package hough

import (
	"image"
)

// EdgeImage is a binary W×H grid. A non-zero sample is an edge pixel, zero is
// background. Samples are stored row-major with the origin at the top-left.
//
// A transform only reads the image; callers must not modify it while a Build
// call is running.
type EdgeImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewEdgeImage allocates an all-background image.
func NewEdgeImage(width, height int) *EdgeImage {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &EdgeImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// EdgeImageFromGray converts a grayscale image: every non-zero pixel becomes an
// edge. The result is re-based so that the image's Min corner maps to (0, 0).
func EdgeImageFromGray(g *image.Gray) *EdgeImage {
	b := g.Bounds()
	e := NewEdgeImage(b.Dx(), b.Dy())
	for y := 0; y < e.Height; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+e.Width]
		for x, v := range row {
			if v != 0 {
				e.Pix[y*e.Width+x] = 255
			}
		}
	}
	return e
}

// At reports whether (x, y) is an edge pixel. Out of range coordinates are
// background.
func (e *EdgeImage) At(x, y int) bool {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return false
	}
	return e.Pix[y*e.Width+x] != 0
}

// Set marks (x, y) as edge or background. Out of range coordinates are ignored.
func (e *EdgeImage) Set(x, y int, edge bool) {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return
	}
	if edge {
		e.Pix[y*e.Width+x] = 255
	} else {
		e.Pix[y*e.Width+x] = 0
	}
}

// Count returns the number of edge pixels.
func (e *EdgeImage) Count() int {
	n := 0
	for _, v := range e.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Points returns the coordinates of every edge pixel in row-major order.
func (e *EdgeImage) Points() []image.Point {
	pts := make([]image.Point, 0, e.Count())
	for y := 0; y < e.Height; y++ {
		for x := 0; x < e.Width; x++ {
			if e.Pix[y*e.Width+x] != 0 {
				pts = append(pts, image.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// Gray renders the image as white edges on black.
func (e *EdgeImage) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, e.Width, e.Height))
	copy(g.Pix, e.Pix)
	return g
}
