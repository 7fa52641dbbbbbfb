package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// Canny performs Canny edge detection and returns a binary image in which
// edge pixels are 255 and everything else is 0.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - thresholdLow: Gradient magnitude (0-255 scale) below which a pixel is
//     never an edge. Typical value: 50.
//   - thresholdHigh: Gradient magnitude above which a pixel is always an
//     edge. Typical value: 150.
//
// # Algorithm
//
//  1. Grayscale conversion.
//
//  2. Gaussian blur (bild, radius 2) to reduce noise.
//
//  3. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//
//  4. Non-maximum suppression: edges are thinned to 1-pixel width by keeping
//     only local maxima along the gradient direction.
//
//  5. Hysteresis: strong pixels (≥ thresholdHigh) seed edges, and weak pixels
//     (≥ thresholdLow) are kept when 8-connected to a seed through other weak
//     pixels.
//
// The one-pixel frame border is never an edge. This keeps the border of a
// cropped region of interest from turning into a spurious line.
func Canny(img image.Image, thresholdLow, thresholdHigh int) *image.Gray {
	blurred := blur.Gaussian(toGray(img), 2)

	bounds := blurred.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	result := image.NewGray(image.Rect(0, 0, width, height))
	if width < 3 || height < 3 {
		return result
	}

	lum := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			lum[y*width+x] = float64(blurred.Pix[y*blurred.Stride+x*4]) / 255.0
		}
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	at := func(x, y int) float64 {
		return lum[clamp(y, 0, height-1)*width+clamp(x, 0, width-1)]
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := direction[i]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[i-width], magnitude[i+width]
			default:
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			}

			if magnitude[i] >= n1 && magnitude[i] >= n2 {
				suppressed[i] = magnitude[i]
			}
		}
	}

	// Hysteresis
	low := float64(thresholdLow) / 255.0
	high := float64(thresholdHigh) / 255.0
	var stack []int
	for i, v := range suppressed {
		if v >= high && v > 0 {
			result.Pix[i] = 255
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				px, py := x+kx, y+ky
				if px < 0 || py < 0 || px >= width || py >= height {
					continue
				}
				j := py*width + px
				if result.Pix[j] == 0 && suppressed[j] >= low && suppressed[j] > 0 {
					result.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}
	return result
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
