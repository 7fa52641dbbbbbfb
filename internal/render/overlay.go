package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"

	"github.com/ironsheep/hough-tools-mcp/internal/geometry"
)

// Circle is a circle to draw, in frame coordinates.
type Circle struct {
	X, Y, Radius float64
}

// Annotations are the primitives drawn by Overlay.
type Annotations struct {
	Lines    []geometry.Segment
	Segments []geometry.Segment
	Circles  []Circle
	Lanes    []geometry.Segment
	Horizon  *r2.Point

	// Region is outlined when set.
	Region *image.Rectangle
}

// Style sets the colors and widths used by Overlay.
type Style struct {
	LineColor    string
	SegmentColor string
	LaneColor    string
	HorizonColor string
	RegionColor  string

	// CircleColor fixes the circle color; empty spreads hues per circle.
	CircleColor string

	LineWidth float64

	// GridSpacing draws a labelled coordinate grid every GridSpacing pixels
	// when > 0.
	GridSpacing int
	GridColor   string
}

// DefaultStyle returns the colors used by the server and the CLI.
func DefaultStyle() Style {
	return Style{
		LineColor:    "#ff0000",
		SegmentColor: "#00ff00",
		LaneColor:    "#0080ff",
		HorizonColor: "#ffff00",
		RegionColor:  "#ff00ff",
		LineWidth:    2,
		GridColor:    "#ff000080",
	}
}

type palette struct {
	line, segment, lane, horizon, region, grid, circle color.Color
}

func (s Style) palette() (*palette, error) {
	var p palette
	for _, c := range []struct {
		hex string
		dst *color.Color
	}{
		{s.LineColor, &p.line},
		{s.SegmentColor, &p.segment},
		{s.LaneColor, &p.lane},
		{s.HorizonColor, &p.horizon},
		{s.RegionColor, &p.region},
		{s.GridColor, &p.grid},
	} {
		parsed, err := parseHexColor(c.hex)
		if err != nil {
			return nil, err
		}
		*c.dst = parsed
	}
	if s.CircleColor != "" {
		parsed, err := parseHexColor(s.CircleColor)
		if err != nil {
			return nil, err
		}
		p.circle = parsed
	}
	return &p, nil
}

// Overlay draws ann over a copy of img. The result has its origin at (0, 0)
// and the size of img; img is not modified.
//
// Parameters:
//   - img: Frame to draw on.
//   - ann: Primitives in frame coordinates.
//   - style: Colors and widths; every color must parse.
//
// Returns:
//   - image.Image: The annotated copy.
//   - error: Non-nil if a style color is invalid.
func Overlay(img image.Image, ann Annotations, style Style) (image.Image, error) {
	pal, err := style.palette()
	if err != nil {
		return nil, fmt.Errorf("invalid style: %w", err)
	}
	width := style.LineWidth
	if width <= 0 {
		width = 1
	}

	if img.Bounds().Min != (image.Point{}) {
		img = imaging.Clone(img)
	}
	dc := gg.NewContextForImage(img)

	if style.GridSpacing > 0 {
		drawGrid(dc, style.GridSpacing, pal.grid)
	}
	if ann.Region != nil {
		r := *ann.Region
		dc.SetColor(pal.region)
		dc.SetLineWidth(1)
		dc.DrawRectangle(float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5, float64(r.Dx()-1), float64(r.Dy()-1))
		dc.Stroke()
	}

	strokeAll(dc, ann.Lines, pal.line, width)
	strokeAll(dc, ann.Segments, pal.segment, width)

	hues := spreadHues(len(ann.Circles))
	for i, c := range ann.Circles {
		col := pal.circle
		if col == nil {
			col = hues[i]
		}
		dc.SetColor(col)
		dc.SetLineWidth(width)
		dc.DrawCircle(c.X, c.Y, c.Radius)
		dc.Stroke()
		dc.DrawCircle(c.X, c.Y, width)
		dc.Fill()
	}

	strokeAll(dc, ann.Lanes, pal.lane, width+1)
	if ann.Horizon != nil {
		dc.SetColor(pal.horizon)
		dc.DrawCircle(ann.Horizon.X, ann.Horizon.Y, 2*width+1)
		dc.Fill()
	}
	return dc.Image(), nil
}

func strokeAll(dc *gg.Context, segs []geometry.Segment, c color.Color, width float64) {
	if len(segs) == 0 {
		return
	}
	dc.SetColor(c)
	dc.SetLineWidth(width)
	for _, s := range segs {
		dc.DrawLine(s.Start.X, s.Start.Y, s.End.X, s.End.Y)
		dc.Stroke()
	}
}

// drawGrid draws grid lines every spacing pixels, labelled with their
// coordinates at each crossing.
func drawGrid(dc *gg.Context, spacing int, c color.Color) {
	w, h := dc.Width(), dc.Height()
	dc.SetColor(c)
	dc.SetLineWidth(1)
	for x := spacing; x < w; x += spacing {
		dc.DrawLine(float64(x)+0.5, 0, float64(x)+0.5, float64(h))
		dc.Stroke()
	}
	for y := spacing; y < h; y += spacing {
		dc.DrawLine(0, float64(y)+0.5, float64(w), float64(y)+0.5)
		dc.Stroke()
	}

	for y := spacing; y < h; y += spacing {
		for x := spacing; x < w; x += spacing {
			label := fmt.Sprintf("%d,%d", x, y)
			tw, th := dc.MeasureString(label)
			dc.SetRGBA(0, 0, 0, 0.7)
			dc.DrawRectangle(float64(x+2), float64(y+2), tw+2, th+2)
			dc.Fill()
			dc.SetRGB(1, 1, 1)
			dc.DrawString(label, float64(x+3), float64(y+3)+th)
		}
	}
}
