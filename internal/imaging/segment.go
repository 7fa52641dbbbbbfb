package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// EdgeMethod names a way of turning a frame into a binary edge image.
type EdgeMethod string

const (
	// EdgeAdaptive compares every pixel with the Gaussian-weighted mean of
	// its 3×3 neighborhood and keeps those brighter by more than Offset, then
	// erodes the result. This is the road-marking segmentation and the
	// default.
	EdgeAdaptive EdgeMethod = "adaptive"
	// EdgeThreshold keeps pixels whose luminance is at least Level.
	EdgeThreshold EdgeMethod = "threshold"
	// EdgeCanny runs the Canny detector.
	EdgeCanny EdgeMethod = "canny"
	// EdgeSobel keeps pixels whose Sobel response is at least Level.
	EdgeSobel EdgeMethod = "sobel"
	// EdgeNone treats every non-black pixel as an edge, for frames that are
	// already binary.
	EdgeNone EdgeMethod = "none"
)

// EdgeMethods lists every supported method.
var EdgeMethods = []EdgeMethod{EdgeAdaptive, EdgeThreshold, EdgeCanny, EdgeSobel, EdgeNone}

// ParseEdgeMethod validates a method name. The empty string selects
// EdgeAdaptive.
func ParseEdgeMethod(s string) (EdgeMethod, error) {
	if s == "" {
		return EdgeAdaptive, nil
	}
	for _, m := range EdgeMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown edge method: %s", s)
}

// EdgeOptions configures ExtractEdges.
type EdgeOptions struct {
	Method EdgeMethod

	// Region is a named region of interest; see Region.
	Region string

	// BlurRadius applies a Gaussian blur before segmentation when > 0.
	BlurRadius float64

	// Level is the cut-off for EdgeThreshold and EdgeSobel (0-255).
	Level uint8

	// Offset is how much brighter than its local mean a pixel must be for
	// EdgeAdaptive.
	Offset float64

	// ErodeRadius removes isolated specks after EdgeAdaptive and
	// EdgeThreshold. A radius of 0.5 erodes with a 2×2 window.
	ErodeRadius float64

	// CannyLow and CannyHigh are the hysteresis thresholds for EdgeCanny.
	CannyLow  int
	CannyHigh int
}

// DefaultEdgeOptions returns the settings used for road frames.
func DefaultEdgeOptions() EdgeOptions {
	return EdgeOptions{
		Method:      EdgeAdaptive,
		Region:      RegionAuto,
		Level:       175,
		Offset:      1.5,
		ErodeRadius: 0.5,
		CannyLow:    50,
		CannyHigh:   150,
	}
}

// EdgeResult is a binary edge image together with the region it was computed
// in, both in frame coordinates.
type EdgeResult struct {
	Edges  *hough.EdgeImage
	Region image.Rectangle
}

// ExtractEdges segments the region of interest of img and returns a
// frame-sized edge image in which everything outside the region is
// background.
//
// Parameters:
//   - img: Source frame (color or grayscale).
//   - opts: Method, region and method parameters.
//
// Returns:
//   - *EdgeResult: The edge image and the resolved region.
//   - error: Non-nil for an unknown method or region, or an empty region.
func ExtractEdges(img image.Image, opts EdgeOptions) (*EdgeResult, error) {
	method, err := ParseEdgeMethod(string(opts.Method))
	if err != nil {
		return nil, err
	}
	sub, region, err := CropRegion(img, opts.Region)
	if err != nil {
		return nil, err
	}

	var src image.Image = sub
	if opts.BlurRadius > 0 {
		src = blur.Gaussian(src, opts.BlurRadius)
	}

	var binary *image.Gray
	switch method {
	case EdgeAdaptive:
		binary = erode(adaptiveThreshold(src, opts.Offset), opts.ErodeRadius)
	case EdgeThreshold:
		binary = erode(segment.Threshold(toGray(src), opts.Level), opts.ErodeRadius)
	case EdgeCanny:
		binary = Canny(src, opts.CannyLow, opts.CannyHigh)
	case EdgeSobel:
		binary = segment.Threshold(effect.Sobel(toGray(src)), opts.Level)
	case EdgeNone:
		binary = toGray(src)
	}

	bounds := img.Bounds()
	edges := hough.NewEdgeImage(bounds.Dx(), bounds.Dy())
	for y := 0; y < region.Dy(); y++ {
		row := binary.Pix[y*binary.Stride : y*binary.Stride+region.Dx()]
		for x, v := range row {
			if v != 0 {
				edges.Pix[(y+region.Min.Y)*edges.Width+x+region.Min.X] = 255
			}
		}
	}
	return &EdgeResult{Edges: edges, Region: region}, nil
}

// gaussian3x3 is the 3×3 binomial approximation of a Gaussian. Its weights
// are exact binary fractions, so a flat area keeps its value.
var gaussian3x3 = &convolution.Kernel{
	Matrix: []float64{
		1.0 / 16, 2.0 / 16, 1.0 / 16,
		2.0 / 16, 4.0 / 16, 2.0 / 16,
		1.0 / 16, 2.0 / 16, 1.0 / 16,
	},
	Width:  3,
	Height: 3,
}

// adaptiveThreshold marks pixels brighter than their Gaussian-weighted 3×3
// mean by more than offset.
func adaptiveThreshold(img image.Image, offset float64) *image.Gray {
	gray := toGray(img)
	// Bias 0.5 turns the convolution's truncation into rounding.
	mean := convolution.Convolve(gray, gaussian3x3, &convolution.Options{Bias: 0.5})

	b := gray.Bounds()
	out := image.NewGray(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := float64(gray.Pix[y*gray.Stride+x])
			m := float64(mean.Pix[y*mean.Stride+x*4])
			if v > m+offset {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

func erode(g *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return g
	}
	return segment.Threshold(effect.Erode(g, radius), 128)
}

// toGray converts img to 8-bit luminance with a (0, 0) origin. Alpha is
// dropped so transparent pixels keep their color's luminance.
func toGray(img image.Image) *image.Gray {
	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g.Pix[y*g.Stride+x] = nrgba.Pix[y*nrgba.Stride+x*4]
		}
	}
	return g
}
