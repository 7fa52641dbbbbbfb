package render

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

var (
	heatLow  = colorful.Color{R: 0, G: 0, B: 0.15}
	heatHigh = colorful.Color{R: 1, G: 0.95, B: 0.2}
)

// projection returns the accumulator as a Dims[0] × Dims[1] grid of vote
// counts, taking the maximum over the third axis of a 3D accumulator, and the
// largest count.
func projection(acc *hough.Accumulator) (w, h int, cells []int32, peak int32) {
	dims := acc.Dims()
	if len(dims) < 2 {
		return 0, 0, nil, 0
	}
	w, h = dims[0], dims[1]
	layers := 1
	if len(dims) == 3 {
		layers = dims[2]
	}

	cells = make([]int32, w*h)
	for i := range cells {
		var m int32
		for _, v := range acc.Cells[i*layers : (i+1)*layers] {
			m = max(m, v)
		}
		cells[i] = m
		peak = max(peak, m)
	}
	return w, h, cells, peak
}

// AccumulatorImage renders acc as a grayscale image normalised so that the
// strongest cell is white. Cell (i, j) becomes pixel (i, j). An empty
// accumulator renders black.
func AccumulatorImage(acc *hough.Accumulator) *image.Gray {
	w, h, cells, peak := projection(acc)
	img := image.NewGray(image.Rect(0, 0, w, h))
	if peak == 0 {
		return img
	}
	for i := 0; i < w; i++ {
		for j := 0; j < h; j++ {
			v := (int64(cells[i*h+j])*255 + int64(peak)/2) / int64(peak)
			img.Pix[j*img.Stride+i] = uint8(v)
		}
	}
	return img
}

// Heatmap renders acc like AccumulatorImage, blending from dark blue for no
// votes to yellow for the strongest cell.
func Heatmap(acc *hough.Accumulator) *image.RGBA {
	gray := AccumulatorImage(acc)
	b := gray.Bounds()
	img := image.NewRGBA(b)

	var lut [256]color.RGBA
	for i := range lut {
		r, g, bl := heatLow.BlendLab(heatHigh, float64(i)/255).Clamped().RGB255()
		lut[i] = color.RGBA{R: r, G: g, B: bl, A: 255}
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			img.SetRGBA(x, y, lut[gray.Pix[y*gray.Stride+x]])
		}
	}
	return img
}
