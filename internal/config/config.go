// Package config holds the numeric parameters shared by the server tools and
// the command line detector, with their defaults and validation.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

// Mode selects what a detection run looks for.
type Mode string

const (
	ModeLines    Mode = "lines"
	ModeSegments Mode = "segments"
	ModeCircles  Mode = "circles"
	ModeLanes    Mode = "lanes"
)

// Modes lists every detection mode.
var Modes = []Mode{ModeLines, ModeSegments, ModeCircles, ModeLanes}

// Orientation tells the pipeline how the camera was held. OrientationAuto
// derives it from the frame's aspect ratio.
type Orientation string

const (
	OrientationAuto      Orientation = "auto"
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
)

// DefaultMaxVotes caps edgePixels × angleSteps × radiusLayers for one run.
const DefaultMaxVotes = 200_000_000

// Params are the tunables of one detection run. JSON names double as the
// MCP tool argument names.
type Params struct {
	Mode        Mode        `json:"mode"`
	Orientation Orientation `json:"orientation"`

	// Lines.
	LineThreshold int    `json:"line_threshold"`
	MinLineLength int    `json:"min_line_length"`
	MaxLineGap    int    `json:"max_line_gap"`
	AngleSteps    int    `json:"angle_steps"`
	Neighborhood  int    `json:"neighborhood"`
	Convention    string `json:"convention"`

	// Circles.
	CircleThreshold   int    `json:"circle_threshold"`
	MinRadius         int    `json:"min_radius"`
	MaxRadius         int    `json:"max_radius"`
	StepRadius        int    `json:"step_radius"`
	MinDistance       int    `json:"min_distance"`
	VoteBounds        string `json:"vote_bounds"`
	RadiusSuppression string `json:"radius_suppression"`

	// Edge extraction.
	EdgeMethod     string  `json:"edge_method"`
	Region         string  `json:"region"`
	BlurRadius     float64 `json:"blur_radius"`
	EdgeLevel      int     `json:"edge_level"`
	AdaptiveOffset float64 `json:"adaptive_offset"`
	ErodeRadius    float64 `json:"erode_radius"`
	CannyLow       int     `json:"canny_low"`
	CannyHigh      int     `json:"canny_high"`

	// MaxVotes is the work budget; 0 disables the check.
	MaxVotes int64 `json:"max_votes"`
}

// Defaults returns the parameters tuned for dash-camera road frames.
func Defaults() Params {
	edge := imaging.DefaultEdgeOptions()
	return Params{
		Mode:        ModeLines,
		Orientation: OrientationAuto,

		LineThreshold: 70,
		MinLineLength: 100,
		MaxLineGap:    100,
		AngleSteps:    hough.DefaultAngleSteps,
		Neighborhood:  hough.DefaultNeighborhood,
		Convention:    hough.Centered.String(),

		CircleThreshold:   45,
		MinRadius:         40,
		MaxRadius:         40,
		StepRadius:        10,
		MinDistance:       25,
		VoteBounds:        hough.BoundsUpperLeft.String(),
		RadiusSuppression: hough.SuppressAcrossLayers.String(),

		EdgeMethod:     string(edge.Method),
		Region:         edge.Region,
		BlurRadius:     edge.BlurRadius,
		EdgeLevel:      int(edge.Level),
		AdaptiveOffset: edge.Offset,
		ErodeRadius:    edge.ErodeRadius,
		CannyLow:       edge.CannyLow,
		CannyHigh:      edge.CannyHigh,

		MaxVotes: DefaultMaxVotes,
	}
}

// Decode overlays the values in m onto Defaults and validates the result.
// Keys are the JSON names of Params; numbers may arrive as float64 or as
// strings. Unknown keys are an error.
func Decode(m map[string]interface{}) (Params, error) {
	p := Defaults()
	if err := p.Merge(m); err != nil {
		return p, err
	}
	return p, p.Validate()
}

// Merge overlays the values in m onto p without validating.
func (p *Params) Merge(m map[string]interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           p,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("decoding parameters: %w", err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (p Params) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf(format, args...))
		}
	}

	check(validMode(p.Mode), "unknown mode %q", p.Mode)
	switch p.Orientation {
	case OrientationAuto, OrientationLandscape, OrientationPortrait, "":
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown orientation %q", p.Orientation))
	}

	check(p.LineThreshold >= 0, "line_threshold must be >= 0, got %d", p.LineThreshold)
	check(p.MinLineLength >= 0, "min_line_length must be >= 0, got %d", p.MinLineLength)
	check(p.MaxLineGap >= 0, "max_line_gap must be >= 0, got %d", p.MaxLineGap)
	check(p.AngleSteps >= 1, "angle_steps must be >= 1, got %d", p.AngleSteps)
	check(p.Neighborhood >= 0, "neighborhood must be >= 0, got %d", p.Neighborhood)

	check(p.CircleThreshold >= 0, "circle_threshold must be >= 0, got %d", p.CircleThreshold)
	check(p.MinRadius >= 1, "min_radius must be >= 1, got %d", p.MinRadius)
	check(p.MaxRadius >= p.MinRadius, "max_radius %d is below min_radius %d", p.MaxRadius, p.MinRadius)
	check(p.StepRadius >= 1, "step_radius must be >= 1, got %d", p.StepRadius)
	check(p.MinDistance >= 0, "min_distance must be >= 0, got %d", p.MinDistance)

	check(p.BlurRadius >= 0, "blur_radius must be >= 0, got %g", p.BlurRadius)
	check(p.EdgeLevel >= 0 && p.EdgeLevel <= 255, "edge_level must be in 0..255, got %d", p.EdgeLevel)
	check(p.ErodeRadius >= 0, "erode_radius must be >= 0, got %g", p.ErodeRadius)
	check(p.CannyLow >= 0 && p.CannyLow <= p.CannyHigh,
		"canny thresholds must satisfy 0 <= low <= high, got %d/%d", p.CannyLow, p.CannyHigh)
	check(p.MaxVotes >= 0, "max_votes must be >= 0, got %d", p.MaxVotes)

	if _, err := hough.ParseIndexConvention(p.Convention); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := hough.ParseVoteBoundsRule(p.VoteBounds); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := hough.ParseRadiusSuppression(p.RadiusSuppression); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := imaging.ParseEdgeMethod(p.EdgeMethod); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := imaging.Region(p.Region, 1, 1); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func validMode(m Mode) bool {
	for _, v := range Modes {
		if m == v {
			return true
		}
	}
	return false
}

// Portrait resolves the orientation of a width × height frame.
func (p Params) Portrait(width, height int) bool {
	switch p.Orientation {
	case OrientationPortrait:
		return true
	case OrientationLandscape:
		return false
	default:
		return imaging.IsPortrait(width, height)
	}
}

// EffectiveLineThreshold lowers LineThreshold by a fifth in lanes mode and by
// a further third for portrait frames.
func (p Params) EffectiveLineThreshold(portrait bool) int {
	t := p.LineThreshold
	if p.Mode == ModeLanes {
		t -= t / 5
	}
	if portrait {
		t -= t / 3
	}
	return t
}

// LineOptions converts the line fields for hough.BuildLineSpace.
func (p Params) LineOptions() (hough.LineOptions, error) {
	conv, err := hough.ParseIndexConvention(p.Convention)
	if err != nil {
		return hough.LineOptions{}, err
	}
	return hough.LineOptions{
		AngleSteps:   p.AngleSteps,
		Convention:   conv,
		Neighborhood: p.Neighborhood,
	}, nil
}

// CircleOptions converts the circle fields for hough.BuildCircleSpace and
// hough.BuildCircleSpace3D.
func (p Params) CircleOptions() (hough.CircleOptions, error) {
	bounds, err := hough.ParseVoteBoundsRule(p.VoteBounds)
	if err != nil {
		return hough.CircleOptions{}, err
	}
	return hough.CircleOptions{AngleSteps: p.AngleSteps, Bounds: bounds}, nil
}

// Suppression returns the cross-radius suppression mode.
func (p Params) Suppression() (hough.RadiusSuppression, error) {
	return hough.ParseRadiusSuppression(p.RadiusSuppression)
}

// EdgeOptions converts the edge fields for imaging.ExtractEdges. An automatic
// region follows an explicit orientation when one is set.
func (p Params) EdgeOptions() imaging.EdgeOptions {
	region := p.Region
	if region == "" || region == imaging.RegionAuto {
		switch p.Orientation {
		case OrientationPortrait:
			region = imaging.DefaultRegion(true)
		case OrientationLandscape:
			region = imaging.DefaultRegion(false)
		}
	}
	return imaging.EdgeOptions{
		Method:      imaging.EdgeMethod(p.EdgeMethod),
		Region:      region,
		BlurRadius:  p.BlurRadius,
		Level:       uint8(min(max(p.EdgeLevel, 0), 255)),
		Offset:      p.AdaptiveOffset,
		ErodeRadius: p.ErodeRadius,
		CannyLow:    p.CannyLow,
		CannyHigh:   p.CannyHigh,
	}
}
